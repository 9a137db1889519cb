package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driving"
)

// ExtractRequest is the body of POST /extract and POST /select.
type ExtractRequest struct {
	SourceID string `json:"source_id"`
	Text     string `json:"text"`
}

// ExtractResponse is a scored result plus its one-line summary.
type ExtractResponse struct {
	Result  *domain.ExtractionResult `json:"result"`
	Summary string                   `json:"summary"`
}

// SelectResponse reports the raw winner and every strategy's score.
type SelectResponse struct {
	Best      string            `json:"best,omitempty"`
	BestScore int               `json:"best_score"`
	Fields    map[string]any    `json:"fields"`
	Scores    []StrategyOutcome `json:"scores"`
}

// StrategyOutcome is one evaluated strategy.
type StrategyOutcome struct {
	Strategy string `json:"strategy"`
	Score    int    `json:"score"`
	Error    string `json:"error,omitempty"`
}

// RecordResponse is a stored extraction.
type RecordResponse struct {
	ID         string                   `json:"id"`
	VerdictID  string                   `json:"verdict_id"`
	Mode       string                   `json:"mode"`
	Strategy   string                   `json:"strategy,omitempty"`
	Confidence float64                  `json:"confidence"`
	Scores     map[string]int           `json:"scores,omitempty"`
	Result     *domain.ExtractionResult `json:"result"`
	CreatedAt  time.Time                `json:"created_at"`
}

// VerdictResponse is a verdict with its latest extraction.
type VerdictResponse struct {
	ID          string          `json:"id"`
	SourceID    string          `json:"source_id"`
	URI         string          `json:"uri"`
	FileType    string          `json:"file_type"`
	Size        int64           `json:"size"`
	ContentHash string          `json:"content_hash"`
	Status      string          `json:"status"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Extraction  *RecordResponse `json:"extraction,omitempty"`
	Analyses    []string        `json:"analyses,omitempty"`
}

// StatsResponse summarises the store.
type StatsResponse struct {
	Verdicts      int            `json:"verdicts"`
	ByStatus      map[string]int `json:"by_status"`
	Extractions   int            `json:"extractions"`
	AvgConfidence float64        `json:"avg_confidence"`
}

func bindExtract(c *gin.Context) (ExtractRequest, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return req, false
	}
	return req, true
}

func (s *Server) handleExtract(c *gin.Context) {
	req, ok := bindExtract(c)
	if !ok {
		return
	}

	result, err := s.ports.Extraction.Extract(c.Request.Context(), req.SourceID, req.Text)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, ExtractResponse{
		Result:  result,
		Summary: s.ports.Extraction.Summary(result, nil),
	})
}

func (s *Server) handleSelect(c *gin.Context) {
	req, ok := bindExtract(c)
	if !ok {
		return
	}

	sel, err := s.ports.Extraction.Select(c.Request.Context(), req.SourceID, req.Text)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := SelectResponse{
		Best:      string(sel.Best),
		BestScore: sel.BestScore,
		Fields:    make(map[string]any, len(sel.Fields)),
		Scores:    make([]StrategyOutcome, 0, len(sel.Scores)),
	}
	for _, f := range sel.Fields {
		if f.Value.IsList() {
			resp.Fields[f.Name] = f.Value.Items()
		} else {
			resp.Fields[f.Name] = f.Value.String()
		}
	}
	for _, sc := range sel.Scores {
		resp.Scores = append(resp.Scores, StrategyOutcome{Strategy: string(sc.Name), Score: sc.Score, Error: sc.Err})
	}
	respondOK(c, resp)
}

func (s *Server) handleListVerdicts(c *gin.Context) {
	opts, err := listOptions(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	recs, err := s.ports.Results.List(c.Request.Context(), opts)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]RecordResponse, len(recs))
	for i := range recs {
		out[i] = recordResponse(&recs[i])
	}
	respondOK(c, gin.H{"results": out, "count": len(out)})
}

func (s *Server) handleGetVerdict(c *gin.Context) {
	details, err := s.ports.Results.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, verdictResponse(details))
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.ports.Results.Stats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	byStatus := make(map[string]int, len(stats.ByStatus))
	for k, v := range stats.ByStatus {
		byStatus[string(k)] = v
	}
	respondOK(c, StatsResponse{
		Verdicts:      stats.Verdicts,
		ByStatus:      byStatus,
		Extractions:   stats.Extractions,
		AvgConfidence: stats.AvgConfidence,
	})
}

func (s *Server) handleReport(c *gin.Context) {
	report, err := s.ports.Results.Report(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.String(http.StatusOK, report)
}

func (s *Server) handleExport(c *gin.Context) {
	format := c.DefaultQuery("format", "jsonl")
	contentType := "application/x-ndjson"
	if format == "xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	// Export into a buffer first so a failure can still produce a JSON error.
	var buf bytes.Buffer
	if err := s.ports.Results.Export(c.Request.Context(), format, &buf); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="verdicts.%s"`, format))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func listOptions(c *gin.Context) (domain.ListOptions, error) {
	opts := domain.ListOptions{Status: domain.VerdictStatus(c.Query("status"))}
	for name, dst := range map[string]*int{"limit": &opts.Limit, "offset": &opts.Offset} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return opts, fmt.Errorf("%s must be a non-negative integer", name)
		}
		*dst = n
	}
	return opts, nil
}

func recordResponse(rec *domain.ExtractionRecord) RecordResponse {
	return RecordResponse{
		ID:         rec.ID,
		VerdictID:  rec.VerdictID,
		Mode:       string(rec.Mode),
		Strategy:   string(rec.Strategy),
		Confidence: rec.Confidence,
		Scores:     rec.Scores,
		Result:     rec.Result,
		CreatedAt:  rec.CreatedAt,
	}
}

func verdictResponse(d *driving.VerdictDetails) VerdictResponse {
	v := d.Verdict
	out := VerdictResponse{
		ID:          v.ID,
		SourceID:    v.SourceID,
		URI:         v.URI,
		FileType:    v.FileType,
		Size:        v.Size,
		ContentHash: v.ContentHash,
		Status:      string(v.Status),
		Error:       v.Error,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
	if d.Extraction != nil {
		rec := recordResponse(d.Extraction)
		out.Extraction = &rec
	}
	for _, a := range d.Analyses {
		out.Analyses = append(out.Analyses, a.Kind)
	}
	return out
}
