// Package async runs a single computation in its own goroutine and hands the
// caller a Future for its result.
//
// A Future resolves exactly once, either with the value and error returned by
// the task or with the context error when the context is canceled before the
// task starts. A panicking task resolves the Future with ErrPanic instead of
// crashing the process.
//
//	future := async.Async(ctx, file, func(ctx context.Context, r io.Reader) ([]subscription.Record, error) {
//	    return backup.Import(r)
//	})
//	records, err := future.AwaitContext(ctx)
package async
