package service

// withAttempts runs fn up to attempts times, stopping early on success or on
// any error the retryable predicate rejects. Only the last error is
// returned; every retried error consumed one attempt of the budget.
func withAttempts(attempts int, retryable func(error) bool, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
	}

	return err
}
