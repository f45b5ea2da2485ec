// Package core defines the types shared by the yvision OCR client.
//
// The package holds no network code. It describes the values that flow
// between the client, its transport and its callers:
//
//   - [Options], an immutable set of per-request recognition options
//   - [OperationHandle], [OperationStatus] and [OcrResponse], the results of
//     the asynchronous recognition lifecycle
//   - [BackoffPolicy], the delay schedule used while waiting for an operation
//   - [Runner], the scheduling strategy used to wait for several operations
//   - [Transport] and [CredentialProvider], the injected collaborators
//   - [TelemetryHook], the observation point for requests and polls
//
// # Errors
//
// Every error returned by the client matches exactly one sentinel:
//
//	resp, err := client.Wait(ctx, id, time.Minute, nil)
//	switch {
//	case errors.Is(err, core.ErrTimeout):
//	    // still running; the id stays valid and can be waited on again
//	case errors.Is(err, core.ErrAPI):
//	    var apiErr *core.APIError
//	    errors.As(err, &apiErr)
//	    log.Printf("status=%d request_id=%s", apiErr.Status, apiErr.RequestID)
//	}
//
// Context cancellation is returned unwrapped, so errors.Is(err,
// context.Canceled) works as usual.
//
// # Options
//
// Options values are never modified in place:
//
//	base := core.NewOptions().WithLanguageCodes(core.LangRU, core.LangEN)
//	tables := base.WithModel(core.ModelTable)
//
// Both values can be used concurrently.
package core
