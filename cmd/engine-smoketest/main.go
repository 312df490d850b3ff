package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/Pulkit7070/Verique-Mumbai/src/shared/engine"
	"github.com/Pulkit7070/Verique-Mumbai/src/shared/verifier"
)

var (
	engineFlag   = flag.String("engine", "http://localhost:9090", "Verification engine base URL")
	textFlag     = flag.String("text", defaultText, "Content to verify")
	urlFlag      = flag.String("url", "", "Optional source URL")
	verticalFlag = flag.String("vertical", "general", "Content category")
	timeoutFlag  = flag.Duration("timeout", 90*time.Second, "Engine call timeout")
	paceFlag     = flag.Duration("pace", 2*time.Second, "Stage pacing interval (0 disables)")
)

const defaultText = "Our platform serves 10,000 teams across 40 countries."

func main() {
	log.SetFlags(0)
	flag.Parse()

	req, err := verifier.NewRequest(*textFlag, *urlFlag, *verticalFlag)
	if err != nil {
		log.Fatalf("invalid request: %v", err)
	}

	orch := verifier.New(engine.NewClient(*engineFlag),
		verifier.WithTimeout(*timeoutFlag),
		verifier.WithStagePace(*paceFlag))

	stopWatch := make(chan struct{})
	go watchProgress(orch, stopWatch)

	start := time.Now()
	res, err := orch.Submit(context.Background(), req)
	close(stopWatch)
	if err != nil {
		log.Fatalf("verification failed (%s): %v", verifier.ErrorCode(err), err)
	}

	fmt.Printf("\nverified in %.1fs\n", time.Since(start).Seconds())
	fmt.Printf("confidence: %d%%\n", verifier.DisplayPercent(res.Breakdown.Confidence))
	fmt.Printf("note: %s\n", verifier.Disclaimer)
	for _, f := range res.Breakdown.Factors {
		fmt.Printf("  %+d%%  %s — %s\n", int(f.Impact), f.Label, f.Description)
	}
	fmt.Printf("claims payload: %d bytes\n", len(res.Claims))
}

// watchProgress prints each stage as it becomes active.
func watchProgress(orch *verifier.Orchestrator, stop <-chan struct{}) {
	seen := make(map[string]bool)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			steps, failed := orch.Progress()
			for _, st := range steps {
				if st.Status == verifier.StepActive && !seen[st.Label] {
					seen[st.Label] = true
					fmt.Printf("... %s\n", st.Label)
				}
			}
			if failed {
				return
			}
		}
	}
}
