// Package httpadapter is the thin HTTP façade over the usecase service:
// JSON in, JSON out, no solving logic of its own (spec §1's "thin
// adapters that call the core").
package httpadapter

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"peeler.dev/peeler/internal/domain"
	"peeler.dev/peeler/internal/grid"
	"peeler.dev/peeler/internal/pool"
	"peeler.dev/peeler/internal/ports"
	"peeler.dev/peeler/internal/usecase"
)

type Handler struct {
	UC   *usecase.Service
	Pool *pool.Pool
	// OCR is optional: when nil, /api/classify-rack reports 501 rather
	// than panicking, since not every deployment wires a vision model.
	OCR ports.TileClassifier
}

func New(uc *usecase.Service, p *pool.Pool) *Handler { return &Handler{UC: uc, Pool: p} }

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/solve", h.handleSolve)
	mux.HandleFunc("/api/peel", h.handlePeel)
	mux.HandleFunc("/api/swap-scores", h.handleSwapScores)
	mux.HandleFunc("/api/draw", h.handleDraw)
	mux.HandleFunc("/api/swap-into-pool", h.handleSwapIntoPool)
	mux.HandleFunc("/api/solve-multi", h.handleSolveMulti)
	mux.HandleFunc("/api/classify-rack", h.handleClassifyRack)
}

func parseBudget(ms int64) ports.Budget {
	if ms <= 0 {
		return ports.Unbounded()
	}
	return ports.Budget{Deadline: time.Now().Add(time.Duration(ms) * time.Millisecond)}
}

// ---- Solve ----

type solveReq struct {
	Hand     string `json:"hand"`
	BudgetMs int64  `json:"budgetMs,omitempty"`
}

type solveResp struct {
	Grid       domain.GridView `json:"grid,omitempty"`
	Unplaced   string          `json:"unplaced,omitempty"`
	DurationMs int64           `json:"durationMs,omitempty"`
	Nodes      int             `json:"nodes,omitempty"`
	BudgetHit  bool            `json:"budgetExhausted,omitempty"`
	Error      string          `json:"error,omitempty"`
}

func (h *Handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	var req solveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(solveResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	letters, err := domain.ParseLetters(req.Hand)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(solveResp{Error: err.Error()})
		return
	}
	hand := domain.NewMultiset(letters)
	result, err := h.UC.Solve(r.Context(), hand, parseBudget(req.BudgetMs))
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(solveResp{Error: err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(solveResp{
		Grid:       result.Grid.ToView(),
		Unplaced:   result.Unplaced.String(),
		DurationMs: result.Stats.Duration.Milliseconds(),
		Nodes:      result.Stats.Nodes,
		BudgetHit:  result.Stats.BudgetExhausted,
	})
}

// ---- Peel ----
//
// Peel takes the previous grid's placed-word list rather than a live
// *grid.Grid — the adapter layer only ever sees serialized state, so it
// replays the placements onto a fresh grid before calling the usecase,
// the same boundary the teacher's handlers draw between wire types
// (domain.Board) and live solve state.

type peelReq struct {
	PrevWords []domain.PlacedWordView `json:"prevWords"`
	PrevHand  string                  `json:"prevHand"`
	Added     string                  `json:"added"`
	BudgetMs  int64                   `json:"budgetMs,omitempty"`
}

func (h *Handler) handlePeel(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	var req peelReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(solveResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	prevGrid, err := replayGrid(req.PrevWords, h.UC.Dictionary)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(solveResp{Error: err.Error()})
		return
	}
	prevLetters, err := domain.ParseLetters(req.PrevHand)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(solveResp{Error: err.Error()})
		return
	}
	addedLetters, err := domain.ParseLetters(req.Added)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(solveResp{Error: err.Error()})
		return
	}
	result, err := h.UC.Peel(r.Context(), prevGrid, domain.NewMultiset(prevLetters), domain.NewMultiset(addedLetters), parseBudget(req.BudgetMs))
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(solveResp{Error: err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(solveResp{
		Grid:       result.Grid.ToView(),
		Unplaced:   result.Unplaced.String(),
		DurationMs: result.Stats.Duration.Milliseconds(),
		Nodes:      result.Stats.Nodes,
		BudgetHit:  result.Stats.BudgetExhausted,
	})
}

// replayGrid rebuilds a live *grid.Grid from its serialized placed-word
// list by re-running CanPlace/Place in insertion order. Every word here
// was already validated once by the solver that produced it, so replay
// failing indicates the caller tampered with or mis-serialized the
// payload, not a solver defect.
func replayGrid(words []domain.PlacedWordView, dict ports.Dictionary) (*grid.Grid, error) {
	g := grid.New()
	for _, pwv := range words {
		letters, err := domain.ParseLetters(pwv.Word)
		if err != nil {
			return nil, err
		}
		word := domain.Word(letters)
		if !dict.Contains(word) {
			return nil, fmt.Errorf("placed word %q is not in the dictionary", pwv.Word)
		}
		d := domain.Horizontal
		if strings.EqualFold(pwv.Direction, "vertical") {
			d = domain.Vertical
		}
		placement, rej := g.CanPlace(word, domain.Cell{Row: pwv.Row, Col: pwv.Col}, d, dict)
		if rej != nil {
			return nil, rej
		}
		g.Place(placement)
	}
	return g, nil
}

// ---- Swap scores ----

type swapReq struct {
	Hand      string                  `json:"hand"`
	GridWords []domain.PlacedWordView `json:"gridWords"`
}

type swapCandidateResp struct {
	Letter string  `json:"letter"`
	Score  float64 `json:"score"`
}

type swapResp struct {
	Candidates []swapCandidateResp `json:"candidates,omitempty"`
	Error      string              `json:"error,omitempty"`
}

func (h *Handler) handleSwapScores(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	var req swapReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(swapResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	g, err := replayGrid(req.GridWords, h.UC.Dictionary)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(swapResp{Error: err.Error()})
		return
	}
	letters, err := domain.ParseLetters(req.Hand)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(swapResp{Error: err.Error()})
		return
	}
	scores, err := h.UC.SwapScores(r.Context(), domain.NewMultiset(letters), g)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(swapResp{Error: err.Error()})
		return
	}
	out := make([]swapCandidateResp, len(scores))
	for i, c := range scores {
		out[i] = swapCandidateResp{Letter: c.Letter.String(), Score: c.Score}
	}
	_ = json.NewEncoder(w).Encode(swapResp{Candidates: out})
}

// ---- Pool draw / swap ----

type poolResp struct {
	Drawn     string `json:"drawn,omitempty"`
	Remaining int    `json:"remaining,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (h *Handler) handleDraw(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		N int `json:"n"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(poolResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	drawn, err := h.UC.DrawFromPool(h.Pool, req.N)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(poolResp{Error: err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(poolResp{Drawn: domain.NewMultiset(drawn).String(), Remaining: h.Pool.RemainingCount()})
}

func (h *Handler) handleSwapIntoPool(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Letter string `json:"letter"`
		DrawN  int    `json:"drawN"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(poolResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	letters, err := domain.ParseLetters(req.Letter)
	if err != nil || len(letters) != 1 {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(poolResp{Error: "letter must be exactly one A-Z character"})
		return
	}
	drawn, err := h.UC.SwapIntoPool(h.Pool, letters[0], req.DrawN)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(poolResp{Error: err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(poolResp{Drawn: domain.NewMultiset(drawn).String(), Remaining: h.Pool.RemainingCount()})
}

// ---- Concurrent multi-hand solve ----
//
// solve-multi evaluates several candidate hands (e.g. the current hand
// plus a few speculative pool draws) concurrently. The core solver
// touches no state beyond the immutable dictionary it's handed, so
// independent solves can run on an errgroup without coordination (spec
// §5's concurrency model).

type multiReq struct {
	Hands    []string `json:"hands"`
	BudgetMs int64    `json:"budgetMs,omitempty"`
}

type multiCandidate struct {
	Hand       string          `json:"hand"`
	Grid       domain.GridView `json:"grid,omitempty"`
	Unplaced   string          `json:"unplaced,omitempty"`
	DurationMs int64           `json:"durationMs,omitempty"`
	Error      string          `json:"error,omitempty"`
}

type multiResp struct {
	Candidates []multiCandidate `json:"candidates,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// ---- Rack photo classification ----
//
// classify-rack plays the role of the original's camera-capture flow
// (spec §10's supplemented feature): upload a photo, get back the hand
// string it shows, ready to feed straight into /api/solve.

type classifyResp struct {
	Hand  string `json:"hand,omitempty"`
	Error string `json:"error,omitempty"`
}

func (h *Handler) handleClassifyRack(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	if h.OCR == nil {
		w.WriteHeader(http.StatusNotImplemented)
		_ = json.NewEncoder(w).Encode(classifyResp{Error: "rack classification is not configured on this deployment"})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(classifyResp{Error: "missing \"image\" form file: " + err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(classifyResp{Error: "reading uploaded image: " + err.Error()})
		return
	}
	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	hand, err := h.OCR.ClassifyRack(r.Context(), data, mimeType)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(classifyResp{Error: err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(classifyResp{Hand: hand.String()})
}

func (h *Handler) handleSolveMulti(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	var req multiReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(multiResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	if len(req.Hands) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(multiResp{Error: "hands must be non-empty"})
		return
	}

	out := make([]multiCandidate, len(req.Hands))
	budget := parseBudget(req.BudgetMs)
	g, ctx := errgroup.WithContext(r.Context())
	for i, raw := range req.Hands {
		i, raw := i, raw
		g.Go(func() error {
			letters, err := domain.ParseLetters(raw)
			if err != nil {
				out[i] = multiCandidate{Hand: raw, Error: err.Error()}
				return nil
			}
			result, err := h.UC.Solve(ctx, domain.NewMultiset(letters), budget)
			if err != nil {
				out[i] = multiCandidate{Hand: raw, Error: err.Error()}
				return nil
			}
			out[i] = multiCandidate{
				Hand:       raw,
				Grid:       result.Grid.ToView(),
				Unplaced:   result.Unplaced.String(),
				DurationMs: result.Stats.Duration.Milliseconds(),
			}
			return nil
		})
	}
	_ = g.Wait()
	_ = json.NewEncoder(w).Encode(multiResp{Candidates: out})
}
