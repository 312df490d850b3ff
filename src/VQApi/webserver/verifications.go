package webserver

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Pulkit7070/Verique-Mumbai/src/VQApi/config"
	"github.com/Pulkit7070/Verique-Mumbai/src/VQApi/data"
	"github.com/Pulkit7070/Verique-Mumbai/src/VQApi/types"
	"github.com/Pulkit7070/Verique-Mumbai/src/shared/verifier"
)

// jobRetention is how long a settled job stays pollable before the
// registry sweeps it.
const jobRetention = 30 * time.Minute

type job struct {
	orch      *verifier.Orchestrator
	createdAt time.Time

	mu        sync.Mutex
	done      bool
	settledAt time.Time
	result    *verifier.Result
	err       error
}

// Verifications exposes the verification workflow over HTTP. Each
// submission gets its own orchestrator instance, registered under a uuid so
// progress and result stay pollable; the presentation layer only ever sees
// snapshots and immutable results.
type Verifications struct {
	db        *gorm.DB
	rdb       *redis.Client
	engine    verifier.Engine
	sanitizer *bluemonday.Policy
	limiter   *RateLimiter
	cfg       config.Config

	mu   sync.Mutex
	jobs map[string]*job
}

func NewVerifications(cfg config.Config, db *gorm.DB, rdb *redis.Client, eng verifier.Engine) *Verifications {
	v := &Verifications{
		db:        db,
		rdb:       rdb,
		engine:    eng,
		sanitizer: bluemonday.StrictPolicy(),
		limiter:   NewRateLimiter(cfg.RateLimit),
		cfg:       cfg,
		jobs:      make(map[string]*job),
	}
	go v.janitor()
	return v
}

type resultResponse struct {
	ID             string            `json:"id"`
	Confidence     float64           `json:"confidence"`
	DisplayPercent int               `json:"displayPercent"`
	Disclaimer     string            `json:"disclaimer"`
	Factors        []verifier.Factor `json:"factors"`
	Claims         json.RawMessage   `json:"claims,omitempty"`
	Cached         bool              `json:"cached,omitempty"`
}

func newResultResponse(id string, res *verifier.Result) resultResponse {
	return resultResponse{
		ID:             id,
		Confidence:     res.Breakdown.Confidence,
		DisplayPercent: verifier.DisplayPercent(res.Breakdown.Confidence),
		Disclaimer:     verifier.Disclaimer,
		Factors:        res.Breakdown.Factors,
		Claims:         res.Claims,
	}
}

func (v *Verifications) Submit(c *gin.Context) {
	var req struct {
		Text     string `json:"text" binding:"required,max=20000"`
		URL      string `json:"url" binding:"omitempty,max=2048"`
		Vertical string `json:"vertical" binding:"omitempty,max=32"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	if !v.limiter.CanUse(c.ClientIP()) {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"err":        "too many submissions",
			"retryAfter": v.limiter.TimeUntilNext(c.ClientIP()).Seconds(),
		})
		return
	}

	// Strip markup before validation so "<p></p>" counts as empty content.
	text := v.sanitizer.Sanitize(req.Text)
	if !utf8.ValidString(text) {
		c.JSON(http.StatusBadRequest, gin.H{"err": "invalid characters in input"})
		return
	}

	vreq, err := verifier.NewRequest(text, req.URL, req.Vertical)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error(), "code": verifier.ErrorCode(err)})
		return
	}

	key := data.ContentKey(vreq.Text, string(vreq.Vertical))
	if v.rdb != nil {
		if cached := data.GetCachedVerification(c, v.rdb, key); cached != "" {
			var resp resultResponse
			if err := json.Unmarshal([]byte(cached), &resp); err != nil {
				log.Printf("discarding unreadable cache entry %s: %v", key, err)
			} else {
				resp.Cached = true
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	id := uuid.NewString()
	j := &job{
		orch: verifier.New(v.engine,
			verifier.WithTimeout(v.cfg.EngineTimeout),
			verifier.WithStagePace(v.cfg.StagePace)),
		createdAt: time.Now(),
	}
	v.mu.Lock()
	v.jobs[id] = j
	v.mu.Unlock()

	go v.run(id, j, vreq, key)

	c.JSON(http.StatusAccepted, gin.H{"id": id, "status": "in_progress"})
}

func (v *Verifications) run(id string, j *job, req verifier.Request, key string) {
	res, err := j.orch.Submit(context.Background(), req)

	j.mu.Lock()
	j.done = true
	j.settledAt = time.Now()
	j.result = res
	j.err = err
	j.mu.Unlock()

	if err != nil {
		log.Printf("verification %s failed: %v", id, err)
		return
	}
	v.store(id, req, key, res)
}

// store persists a completed verification and primes the result cache.
// Both stores are optional; failures here never affect the caller's result.
func (v *Verifications) store(id string, req verifier.Request, key string, res *verifier.Result) {
	payload, err := json.Marshal(newResultResponse(id, res))
	if err != nil {
		log.Printf("marshal result %s: %v", id, err)
		return
	}

	if v.rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		data.CacheVerification(ctx, v.rdb, key, string(payload), v.cfg.CacheTTL)
		cancel()
	}

	if v.db != nil {
		factors, _ := json.Marshal(res.Breakdown.Factors)
		rec := types.Verification{
			ID:          id,
			ContentHash: key,
			URL:         req.URL,
			Vertical:    string(req.Vertical),
			Confidence:  res.Breakdown.Confidence,
			Factors:     string(factors),
			Claims:      string(res.Claims),
		}
		if err := v.db.Create(&rec).Error; err != nil {
			log.Printf("persist verification %s: %v", id, err)
		}
	}
}

func (v *Verifications) lookup(id string) *job {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.jobs[id]
}

func (v *Verifications) Progress(c *gin.Context) {
	j := v.lookup(c.Param("id"))
	if j == nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "unknown verification"})
		return
	}

	steps, failed := j.orch.Progress()

	status := "in_progress"
	j.mu.Lock()
	if j.done {
		if j.err != nil {
			status = "failed"
		} else {
			status = "complete"
		}
	}
	j.mu.Unlock()
	if failed {
		status = "failed"
	}

	c.JSON(http.StatusOK, gin.H{"status": status, "steps": steps})
}

func (v *Verifications) Result(c *gin.Context) {
	id := c.Param("id")
	j := v.lookup(id)
	if j == nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "unknown verification"})
		return
	}

	j.mu.Lock()
	done, res, err := j.done, j.result, j.err
	j.mu.Unlock()

	if !done {
		c.JSON(http.StatusAccepted, gin.H{"id": id, "status": "in_progress"})
		return
	}
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, verifier.ErrTimeout) {
			status = http.StatusGatewayTimeout
		}
		c.JSON(status, gin.H{"err": err.Error(), "code": verifier.ErrorCode(err)})
		return
	}
	c.JSON(http.StatusOK, newResultResponse(id, res))
}

// janitor sweeps settled jobs past retention and stale rate-limiter
// entries.
func (v *Verifications) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		v.mu.Lock()
		for id, j := range v.jobs {
			j.mu.Lock()
			expired := j.done && time.Since(j.settledAt) > jobRetention
			j.mu.Unlock()
			if expired {
				delete(v.jobs, id)
			}
		}
		v.mu.Unlock()
		v.limiter.sweep()
	}
}
