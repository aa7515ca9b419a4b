package handler

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/avolkov/url-shortener/internal/middleware"
	"github.com/avolkov/url-shortener/internal/proto"
	"github.com/avolkov/url-shortener/internal/service"
	"github.com/avolkov/url-shortener/internal/storage"
)

type ShortenerGRPCServer struct {
	proto.UnimplementedShortenerServiceServer
	urlService URLService
}

func NewShortenerGRPCServer(urlService URLService) *ShortenerGRPCServer {
	return &ShortenerGRPCServer{
		urlService: urlService,
	}
}

func (s *ShortenerGRPCServer) Shorten(ctx context.Context, req *proto.ShortenRequest) (*proto.ShortenResponse, error) {
	if req.Url == "" {
		return nil, status.Error(codes.InvalidArgument, "url is required")
	}

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "user not authenticated")
	}

	mapping, err := s.urlService.CreateShortURL(ctx, userID, req.Url, req.ShortId)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuotaExceeded):
			return nil, status.Error(codes.ResourceExhausted, err.Error())
		case errors.Is(err, service.ErrShortIDTaken):
			return nil, status.Error(codes.AlreadyExists, err.Error())
		case errors.Is(err, service.ErrAllocationExhausted):
			return nil, status.Error(codes.Unavailable, "allocation attempts exhausted, try again")
		case errors.Is(err, service.ErrInvalidURL), errors.Is(err, service.ErrInvalidShortID):
			return nil, status.Error(codes.InvalidArgument, err.Error())
		case errors.Is(err, service.ErrAccountNotFound):
			return nil, status.Error(codes.Unauthenticated, "account not found")
		case errors.Is(err, storage.ErrUnavailable):
			return nil, status.Error(codes.Unavailable, "storage unavailable")
		default:
			return nil, status.Errorf(codes.Internal, "failed to shorten URL: %v", err)
		}
	}

	return &proto.ShortenResponse{Result: s.urlService.ShortURL(mapping.ShortID)}, nil
}

func (s *ShortenerGRPCServer) Expand(ctx context.Context, req *proto.ExpandRequest) (*proto.ExpandResponse, error) {
	if req.Id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	originalURL, err := s.urlService.ResolveShortURL(ctx, req.Id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, status.Error(codes.NotFound, "url not found")
		case errors.Is(err, storage.ErrUnavailable):
			return nil, status.Error(codes.Unavailable, "storage unavailable")
		default:
			return nil, status.Errorf(codes.Internal, "failed to expand URL: %v", err)
		}
	}

	return &proto.ExpandResponse{Result: originalURL}, nil
}

func (s *ShortenerGRPCServer) ListUserURLs(ctx context.Context, _ *emptypb.Empty) (*proto.UserURLsResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "user not authenticated")
	}

	urls, err := s.urlService.ListUserURLs(ctx, userID)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to get user URLs: %v", err)
	}

	resp := &proto.UserURLsResponse{
		Urls: make([]*proto.URLData, 0, len(urls)),
	}

	for _, u := range urls {
		resp.Urls = append(resp.Urls, &proto.URLData{
			ShortUrl:    u.ShortURL,
			OriginalUrl: u.OriginalURL,
		})
	}

	return resp, nil
}
