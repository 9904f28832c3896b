package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"peeler.dev/peeler/internal/dictionary"
	"peeler.dev/peeler/internal/domain"
	"peeler.dev/peeler/internal/incremental"
	"peeler.dev/peeler/internal/pool"
	"peeler.dev/peeler/internal/solver"
	"peeler.dev/peeler/internal/swap"
	"peeler.dev/peeler/internal/usecase"
)

const testWordlist = `
CAT
CATS
AT
SAT
RAT
TAR
STAR
ARTS
CARS
CAR
ACT
`

func testHandler(t *testing.T) *Handler {
	t.Helper()
	dict, err := dictionary.Build(strings.NewReader(testWordlist))
	if err != nil {
		t.Fatalf("building test dictionary: %v", err)
	}
	core := solver.NewBacktrackSolver(domain.TranslationOnly)
	incr := incremental.NewSolver(core)
	sw := swap.New(1)
	uc := usecase.NewService(core, incr, sw, dict)
	p := pool.New(domain.Multiset{}, 1)
	return New(uc, p)
}

func postJSON(t *testing.T, h http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("encoding request body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestHandleSolveSuccess(t *testing.T) {
	h := testHandler(t)
	rec := postJSON(t, h.handleSolve, "/api/solve", solveReq{Hand: "CAT"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp solveResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	if resp.Grid.LetterCount == 0 {
		t.Fatalf("expected CAT to place letters, got letterCount=0")
	}
}

func TestHandleSolveRejectsGetMethod(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/solve", nil)
	rec := httptest.NewRecorder()
	h.handleSolve(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestHandleSolveRejectsInvalidJSON(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/api/solve", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.handleSolve(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleSolveRejectsInvalidHandLetters(t *testing.T) {
	h := testHandler(t)
	rec := postJSON(t, h.handleSolve, "/api/solve", solveReq{Hand: "C4T"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandlePeelReplaysGridAndExtends(t *testing.T) {
	h := testHandler(t)

	solveRec := postJSON(t, h.handleSolve, "/api/solve", solveReq{Hand: "CAT"})
	var solveResult solveResp
	if err := json.Unmarshal(solveRec.Body.Bytes(), &solveResult); err != nil {
		t.Fatalf("decoding solve response: %v", err)
	}

	peelRec := postJSON(t, h.handlePeel, "/api/peel", peelReq{
		PrevWords: solveResult.Grid.PlacedWords,
		PrevHand:  "CAT",
		Added:     "S",
	})
	if peelRec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", peelRec.Code, peelRec.Body.String())
	}
	var peelResult solveResp
	if err := json.Unmarshal(peelRec.Body.Bytes(), &peelResult); err != nil {
		t.Fatalf("decoding peel response: %v", err)
	}
	if peelResult.Error != "" {
		t.Fatalf("unexpected error: %s", peelResult.Error)
	}
	if peelResult.Grid.LetterCount <= solveResult.Grid.LetterCount {
		t.Fatalf("peel should grow the grid: before=%d after=%d", solveResult.Grid.LetterCount, peelResult.Grid.LetterCount)
	}
}

func TestHandlePeelRejectsMalformedPrevWords(t *testing.T) {
	h := testHandler(t)
	rec := postJSON(t, h.handlePeel, "/api/peel", peelReq{
		PrevWords: []domain.PlacedWordView{{Word: "ZZZZ", Row: 0, Col: 0, Direction: "horizontal"}},
		PrevHand:  "ZZZZ",
		Added:     "S",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleSwapScoresRanksUnplacedLetters(t *testing.T) {
	h := testHandler(t)
	solveRec := postJSON(t, h.handleSolve, "/api/solve", solveReq{Hand: "CAT"})
	var solveResult solveResp
	if err := json.Unmarshal(solveRec.Body.Bytes(), &solveResult); err != nil {
		t.Fatalf("decoding solve response: %v", err)
	}

	rec := postJSON(t, h.handleSwapScores, "/api/swap-scores", swapReq{
		Hand:      "CATZ",
		GridWords: solveResult.Grid.PlacedWords,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp swapResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Candidates) != 1 || resp.Candidates[0].Letter != "Z" {
		t.Fatalf("expected a single candidate Z, got %v", resp.Candidates)
	}
}

func TestHandleDrawSuccess(t *testing.T) {
	h := testHandler(t)
	rec := postJSON(t, h.handleDraw, "/api/draw", map[string]int{"n": 3})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp poolResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Drawn) != 3 {
		t.Fatalf("expected 3 drawn letters, got %q", resp.Drawn)
	}
}

func TestHandleDrawRejectsExcessiveCount(t *testing.T) {
	h := testHandler(t)
	rec := postJSON(t, h.handleDraw, "/api/draw", map[string]int{"n": 1_000_000})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleSwapIntoPoolSuccess(t *testing.T) {
	h := testHandler(t)
	rec := postJSON(t, h.handleSwapIntoPool, "/api/swap-into-pool", map[string]any{"letter": "Z", "drawN": 3})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp poolResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Drawn) != 3 {
		t.Fatalf("expected 3 drawn letters, got %q", resp.Drawn)
	}
}

func TestHandleSwapIntoPoolRejectsMultiCharLetter(t *testing.T) {
	h := testHandler(t)
	rec := postJSON(t, h.handleSwapIntoPool, "/api/swap-into-pool", map[string]any{"letter": "ZZ", "drawN": 3})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleSolveMultiRunsHandsConcurrently(t *testing.T) {
	h := testHandler(t)
	rec := postJSON(t, h.handleSolveMulti, "/api/solve-multi", multiReq{Hands: []string{"CAT", "STAR", "Q"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp multiResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(resp.Candidates))
	}
	byHand := make(map[string]multiCandidate, len(resp.Candidates))
	for _, c := range resp.Candidates {
		byHand[c.Hand] = c
	}
	if byHand["CAT"].Grid.LetterCount == 0 {
		t.Fatalf("expected CAT to place letters")
	}
	if byHand["STAR"].Grid.LetterCount == 0 {
		t.Fatalf("expected STAR to place letters")
	}
	if byHand["Q"].Grid.LetterCount != 0 {
		t.Fatalf("expected Q alone to place nothing")
	}
}

func TestHandleSolveMultiRejectsEmptyHandsList(t *testing.T) {
	h := testHandler(t)
	rec := postJSON(t, h.handleSolveMulti, "/api/solve-multi", multiReq{Hands: []string{}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleClassifyRackReportsNotImplementedWithoutOCR(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/api/classify-rack", nil)
	rec := httptest.NewRecorder()
	h.handleClassifyRack(rec, req)
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotImplemented)
	}
}

func TestHandleClassifyRackRejectsGetMethod(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/classify-rack", nil)
	rec := httptest.NewRecorder()
	h.handleClassifyRack(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

type fakeTileClassifier struct {
	hand domain.Multiset
	err  error
}

func (f fakeTileClassifier) ClassifyRack(ctx context.Context, imageData []byte, mimeType string) (domain.Multiset, error) {
	return f.hand, f.err
}

func TestHandleClassifyRackSuccess(t *testing.T) {
	h := testHandler(t)
	h.OCR = fakeTileClassifier{hand: domain.NewMultiset([]domain.Letter{'C', 'A', 'T'})}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "rack.jpg")
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	if _, err := part.Write([]byte("fake-jpeg-bytes")); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/classify-rack", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.handleClassifyRack(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp classifyResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Hand != "CAT" && resp.Hand != "ACT" && resp.Hand != "TAC" {
		// Multiset.String order isn't under test here; just check the
		// letters round-tripped.
		letters, err := domain.ParseLetters(resp.Hand)
		if err != nil {
			t.Fatalf("parsing returned hand %q: %v", resp.Hand, err)
		}
		if domain.NewMultiset(letters) != domain.NewMultiset([]domain.Letter{'C', 'A', 'T'}) {
			t.Fatalf("hand = %q, want letters C,A,T in some order", resp.Hand)
		}
	}
}

func TestHandleClassifyRackMissingImage(t *testing.T) {
	h := testHandler(t)
	h.OCR = fakeTileClassifier{hand: domain.NewMultiset([]domain.Letter{'C', 'A', 'T'})}

	req := httptest.NewRequest(http.MethodPost, "/api/classify-rack", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	rec := httptest.NewRecorder()
	h.handleClassifyRack(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestRegisterWiresAllRoutes(t *testing.T) {
	h := testHandler(t)
	mux := http.NewServeMux()
	h.Register(mux)

	for _, path := range []string{"/api/solve", "/api/peel", "/api/swap-scores", "/api/draw", "/api/swap-into-pool", "/api/solve-multi", "/api/classify-rack"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code == http.StatusNotFound {
			t.Fatalf("route %s not registered", path)
		}
	}
}
