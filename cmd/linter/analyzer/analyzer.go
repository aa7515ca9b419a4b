// Package analyzer enforces project conventions: no panic, no process
// termination outside func main, and no environment reads outside the
// config package.
package analyzer

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

const configPkgName = "config"

// terminators are calls that stop the process and are only tolerated
// inside func main.
var terminators = map[string]map[string]bool{
	"os":                        {"Exit": true},
	"log":                       {"Fatal": true, "Fatalf": true, "Fatalln": true},
	"github.com/rs/zerolog/log": {"Fatal": true},
}

// envReaders are calls that must stay confined to the config package so the
// rest of the code receives settings by injection.
var envReaders = map[string]map[string]bool{
	"os": {"Getenv": true, "LookupEnv": true},
}

var Analyzer = &analysis.Analyzer{
	Name:     "conventions",
	Doc:      "reports panic, process termination outside main, and environment reads outside the config package",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

func run(pass *analysis.Pass) (interface{}, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	mainBodies := mainFuncBodies(pass)

	insp.Preorder([]ast.Node{(*ast.CallExpr)(nil)}, func(node ast.Node) {
		call := node.(*ast.CallExpr)

		switch fn := call.Fun.(type) {
		case *ast.Ident:
			if fn.Name == "panic" {
				pass.Reportf(call.Pos(), "panic is forbidden")
			}
		case *ast.SelectorExpr:
			pkgPath, ok := importedPackage(pass, fn)
			if !ok {
				return
			}
			checkSelectorCall(pass, call, pkgPath, fn.Sel.Name, mainBodies)
		}
	})

	return nil, nil
}

func checkSelectorCall(pass *analysis.Pass, call *ast.CallExpr, pkgPath, fnName string, mainBodies []*ast.BlockStmt) {
	if terminators[pkgPath][fnName] && !insideAny(call, mainBodies) {
		pass.Reportf(call.Pos(), "%s.%s is forbidden outside main function", shortName(pkgPath), fnName)
		return
	}

	if envReaders[pkgPath][fnName] && pass.Pkg.Name() != configPkgName {
		pass.Reportf(call.Pos(), "os.%s is forbidden outside the config package", fnName)
	}
}

// importedPackage resolves a selector receiver to the import path of the
// package it names, if any.
func importedPackage(pass *analysis.Pass, sel *ast.SelectorExpr) (string, bool) {
	ident, ok := sel.X.(*ast.Ident)
	if !ok || pass.TypesInfo == nil {
		return "", false
	}

	pkgName, ok := pass.TypesInfo.Uses[ident].(*types.PkgName)
	if !ok {
		return "", false
	}

	return pkgName.Imported().Path(), true
}

func mainFuncBodies(pass *analysis.Pass) []*ast.BlockStmt {
	var bodies []*ast.BlockStmt
	for _, f := range pass.Files {
		for _, decl := range f.Decls {
			funcDecl, ok := decl.(*ast.FuncDecl)
			if !ok || funcDecl.Name.Name != "main" || funcDecl.Recv != nil || funcDecl.Body == nil {
				continue
			}
			bodies = append(bodies, funcDecl.Body)
		}
	}
	return bodies
}

func insideAny(node ast.Node, bodies []*ast.BlockStmt) bool {
	for _, body := range bodies {
		if node.Pos() >= body.Pos() && node.End() <= body.End() {
			return true
		}
	}
	return false
}

func shortName(pkgPath string) string {
	if i := strings.LastIndex(pkgPath, "/"); i >= 0 {
		return pkgPath[i+1:]
	}
	return pkgPath
}
