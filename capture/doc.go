// Package capture is the public API of threadlog. Most users only
// need to import this package.
//
// threadlog buffers log emissions per goroutine so a test can assert
// on exactly what one goroutine logged, in order, without output from
// other goroutines interleaving. A goroutine registers once, logs,
// and the records come back out of a drain:
//
//	capture.InitCurrentThread()
//	capture.Info("started")
//	capture.Error("failed", capture.Int("code", 5))
//
//	records := capture.DrainCurrentThread()
//	fmt.Println(capture.FormatOne(records[1])) // [ERROR] failed {code=5}
//
// Registration is the contract, not a convenience. Under the default
// strict policy, logging from a goroutine that never called
// InitCurrentThread panics with a fixed diagnostic, because the
// missing call is a bug in the caller, not a condition to recover
// from. Building a Context with the permissive policy turns that
// first emission into a silent self-registration instead.
//
// The package-level functions delegate to a process-wide default
// Context. That default is deliberately global, which means test
// scenarios that change its policy or compare its stats must run
// sequentially. Tests that want isolation build their own Context:
//
//	ctx := capture.NewBuilder().
//	    WithPolicy(capture.PermissiveInit).
//	    WithMinLevel(capture.DebugLevel).
//	    Build()
//
// A goroutine's buffer can be collected from outside after the
// goroutine is done: InitCurrentThread returns the goroutine's
// identity, and DrainThread(id) hands the records to whoever joined
// it. ReleaseCurrentThread is the teardown hook for pooled workers;
// it removes the ledger entry and returns whatever was left
// undrained.
package capture
