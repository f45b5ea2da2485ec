// Package ocr is a client for the Yandex Vision OCR API.
//
// A [Client] wraps the synchronous recognize endpoint and the asynchronous
// lifecycle: submit a document, poll the operation, retrieve the result.
//
//	client := ocr.New(core.NewAPIKey(os.Getenv("YVISION_API_KEY")))
//	opts := core.NewOptions().WithFolderID(folderID).WithLanguageCodes(core.LangRU)
//
//	handle, err := client.StartTextRecognitionFromFile(ctx, "scan.pdf", opts)
//	if err != nil {
//	    return err
//	}
//	resp, err := client.Wait(ctx, handle.OperationID, time.Minute, nil)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(resp.FullText())
//
// Every client method performs at most one request per call and never
// retries. [Client.Wait] polls with a [core.BackoffPolicy] and
// [Client.WaitMany] spreads several waits over a [core.Runner].
package ocr
