// Package resilience groups the fault tolerance building blocks used across
// the pipeline: circuit breakers for external calls (Claude, OpenAI, feed
// fetches, X posting, the posts database) and retry with exponential backoff
// and jitter.
//
//	cb := circuitbreaker.New(circuitbreaker.DefaultConfig("my-service"))
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return callExternalService()
//	})
//
//	err := retry.WithBackoff(ctx, retry.DefaultConfig(), func() error {
//	    return performOperation()
//	})
package resilience
