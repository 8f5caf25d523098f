package github

import (
	"time"

	"github.com/google/go-github/v66/github"
	"github.com/sirupsen/logrus"
)

// Rate limit handling: the tracker follows the remaining-quota header from
// every response, holds off proactively when the quota runs low, and waits
// out a rate-limited response before retrying the call once.
const (
	// lowWaterMark is the remaining-request threshold below which calls
	// pause before being issued.
	lowWaterMark = 10

	// lowWaterSleep is the proactive pause when the quota is low.
	lowWaterSleep = 60 * time.Second

	// maxCallAttempts bounds the retry loop for a rate-limited call: the
	// original attempt plus one retry after the reset time.
	maxCallAttempts = 2
)

// rateLimiter tracks the remaining API quota across calls. The sleep
// function is injectable for tests.
type rateLimiter struct {
	remaining int
	sleep     func(time.Duration)
	log       *logrus.Logger
}

func newRateLimiter(log *logrus.Logger) *rateLimiter {
	return &rateLimiter{
		remaining: 5000, // GitHub's default hourly limit
		sleep:     time.Sleep,
		log:       log,
	}
}

// beforeCall pauses when the tracked quota is below the low-water mark.
func (rl *rateLimiter) beforeCall() {
	if rl.remaining < lowWaterMark {
		rl.log.Warn("Approaching GitHub API rate limit, waiting before next call")
		rl.sleep(lowWaterSleep)
	}
}

// update records the remaining quota from a response.
func (rl *rateLimiter) update(resp *github.Response) {
	if resp != nil && resp.Rate.Limit > 0 {
		rl.remaining = resp.Rate.Remaining
	}
}

// apiCall is one GitHub API invocation returning its HTTP response wrapper.
type apiCall func() (*github.Response, error)

// do executes a call under rate-limit control. A rate-limited response
// sleeps until the reported reset time (plus a one second margin) and
// retries that exact call, at most once.
func (rl *rateLimiter) do(call apiCall) error {
	var err error
	for attempt := 0; attempt < maxCallAttempts; attempt++ {
		rl.beforeCall()

		var resp *github.Response
		resp, err = call()
		rl.update(resp)

		rateErr, limited := err.(*github.RateLimitError)
		if !limited {
			return err
		}
		if attempt == maxCallAttempts-1 {
			break
		}

		wait := time.Until(rateErr.Rate.Reset.Time) + time.Second
		if wait < 0 {
			wait = time.Second
		}
		rl.log.WithField("wait", wait.Round(time.Second)).Warn("Rate limited, waiting for reset")
		rl.sleep(wait)
	}
	return err
}
