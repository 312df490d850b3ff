// mock-engine is a deterministic stand-in for the real verification engine.
// It serves the /v1/verify contract with canned verdicts derived from the
// submitted text, so the API and smoketest can run without the real
// service. This binary is testing-only — it has no role in production.
//
// Usage: mock-engine [-listen :9090] [-latency 2s]
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"strings"
	"time"
)

var (
	listenFlag  = flag.String("listen", ":9090", "Listen address")
	latencyFlag = flag.Duration("latency", 2*time.Second, "Simulated engine latency")
)

type verifyRequest struct {
	Text     string `json:"text"`
	URL      string `json:"url"`
	Vertical string `json:"vertical"`
}

type factor struct {
	Label       string  `json:"label"`
	Impact      float64 `json:"impact"`
	Description string  `json:"description"`
}

type breakdown struct {
	Confidence float64  `json:"confidence"`
	Factors    []factor `json:"factors"`
}

type claim struct {
	Text     string   `json:"text"`
	Verdict  string   `json:"verdict"`
	Evidence []string `json:"evidence"`
}

type verifyResponse struct {
	ConfidenceBreakdown breakdown `json:"confidenceBreakdown"`
	Claims              []claim   `json:"claims"`
}

func main() {
	flag.Parse()

	http.HandleFunc("/v1/verify", handleVerify)
	log.Printf("mock engine listening on %s (latency %s)", *listenFlag, *latencyFlag)
	log.Fatal(http.ListenAndServe(*listenFlag, nil))
}

func handleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	log.Printf("verify: %d bytes, vertical=%s", len(req.Text), req.Vertical)

	time.Sleep(*latencyFlag)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(respond(req))
}

// respond builds a stable verdict set from the text so repeated runs are
// comparable. Sentences with digits count as supported claims, the rest as
// unverifiable.
func respond(req verifyRequest) verifyResponse {
	var claims []claim
	for _, s := range strings.Split(req.Text, ".") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		verdict := "not_verifiable"
		evidence := []string{}
		if strings.ContainsAny(s, "0123456789") {
			verdict = "supported"
			evidence = []string{"https://example.com/report"}
		}
		claims = append(claims, claim{Text: s + ".", Verdict: verdict, Evidence: evidence})
	}

	confidence := 0.5
	factors := []factor{
		{Label: "Mock corroboration", Impact: 15, Description: "Deterministic mock evidence"},
	}
	if len(claims) > 0 {
		supported := 0
		for _, c := range claims {
			if c.Verdict == "supported" {
				supported++
			}
		}
		confidence = 0.4 + 0.5*float64(supported)/float64(len(claims))
		if supported < len(claims) {
			factors = append(factors, factor{
				Label:       "Unverifiable statements",
				Impact:      -8,
				Description: "Some sentences carry no checkable specifics",
			})
		}
	}

	return verifyResponse{
		ConfidenceBreakdown: breakdown{Confidence: confidence, Factors: factors},
		Claims:              claims,
	}
}
