package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/pep299/iqcraft/internal/ai"
	"github.com/pep299/iqcraft/internal/article"
	"github.com/pep299/iqcraft/internal/export"
	"github.com/pep299/iqcraft/internal/flashcard"
	"github.com/pep299/iqcraft/internal/quiz"
	"github.com/pep299/iqcraft/internal/response"
	"github.com/pep299/iqcraft/internal/session"
	"github.com/pep299/iqcraft/internal/textutil"
)

// FetchArticleHandler serves the article fetch proxy: GET ?url= returns the
// extracted text as {"text": ...}.
func FetchArticleHandler(fetcher *article.Fetcher) http.Handler {
	return corsMiddleware("GET, OPTIONS")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		url := r.URL.Query().Get("url")
		if url == "" {
			response.WriteBadRequest(w, "URL parameter is required")
			return
		}

		text, err := fetcher.Fetch(r.Context(), url)
		if err != nil {
			log.Printf("❌ Error fetching article url=%s: %v", url, err)
			response.WriteInternalError(w, "Unable to fetch article")
			return
		}

		response.WriteOK(w, map[string]string{"text": text})
	}))
}

// healthHandler provides health check endpoint
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status":       "ok",
		"timestamp":    time.Now().Unix(),
		"version":      Version,
		"ai_available": s.config.AIConfigured(),
	}

	stats, err := s.cacheManager.GetStats(r.Context())
	if err != nil {
		log.Printf("❌ Failed to read cache stats: %v", err)
	} else {
		body["cache"] = stats
	}

	response.WriteOK(w, body)
}

type summarizeRequest struct {
	Input string `json:"input"`
}

type summarizeResponse struct {
	Title          string           `json:"title"`
	Summary        string           `json:"summary"`
	OriginalLength int              `json:"original_length"`
	SummaryLength  int              `json:"summary_length"`
	Chunks         int              `json:"chunks"`
	Cached         bool             `json:"cached"`
	Controls       session.Controls `json:"controls"`
}

// summarizeHandler resolves text or a URL into an article and summarizes it
func (s *Server) summarizeHandler(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteBadRequest(w, "Invalid request body")
		return
	}

	ctx := r.Context()
	run := session.New()
	run.Begin(textutil.IsURL(req.Input))

	text, err := s.fetcher.Resolve(ctx, req.Input)
	if err != nil {
		run.Fail(err)
		writeStudyError(w, err)
		return
	}
	run.SetArticle(text)

	result, err := s.orchestrator.Summarize(ctx, text)
	if err != nil {
		run.Fail(err)
		writeStudyError(w, err)
		return
	}
	run.Complete(result.Title, result.Summary)

	response.WriteOK(w, summarizeResponse{
		Title:          run.Title,
		Summary:        run.Summary,
		OriginalLength: textutil.Len(run.ArticleText),
		SummaryLength:  textutil.Len(run.Summary),
		Chunks:         result.Chunks,
		Cached:         result.Cached,
		Controls:       run.State.Controls(),
	})
}

// uploadHandler accepts a .txt file and returns its normalized text
func (s *Server) uploadHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		response.WriteBadRequest(w, "File is required")
		return
	}
	defer file.Close()

	text, err := textutil.ReadTextFile(header.Filename, file)
	if err != nil {
		if errors.Is(err, textutil.ErrFileTypeRejected) {
			response.WriteBadRequest(w, "Please upload a .txt file")
			return
		}
		log.Printf("❌ Failed to read upload name=%s: %v", header.Filename, err)
		response.WriteBadRequest(w, "Failed to read file")
		return
	}

	response.WriteOK(w, map[string]interface{}{
		"text":   text,
		"name":   header.Filename,
		"length": textutil.Len(text),
	})
}

type cardsRequest struct {
	Summary string `json:"summary"`
	Title   string `json:"title"`
}

type cardResponse struct {
	flashcard.Flashcard
	Color string `json:"color"`
}

// flashcardsHandler groups the summary's points into colored cards
func (s *Server) flashcardsHandler(w http.ResponseWriter, r *http.Request) {
	var req cardsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.Summary == "" {
		response.WriteBadRequest(w, "summary is required")
		return
	}

	cards := flashcard.Build(req.Summary, req.Title)
	out := make([]cardResponse, len(cards))
	for i, card := range cards {
		out[i] = cardResponse{Flashcard: card, Color: flashcard.Hex(flashcard.ColorForIndex(i))}
	}

	response.WriteOK(w, map[string]interface{}{
		"cards": out,
		"count": len(out),
	})
}

// exportHandler renders one card as a PNG attachment
func (s *Server) exportHandler(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.URL.Query().Get("index"))
	if err != nil {
		response.WriteBadRequest(w, "index parameter must be an integer")
		return
	}

	var req cardsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.Summary == "" {
		response.WriteBadRequest(w, "summary is required")
		return
	}

	cards := flashcard.Build(req.Summary, req.Title)
	if index < 0 || index >= len(cards) {
		response.WriteError(w, http.StatusNotFound, "No flashcard at that index")
		return
	}

	data, err := s.renderer.PNG(cards[index], index, len(cards))
	if err != nil {
		log.Printf("❌ Failed to render flashcard index=%d: %v", index, err)
		response.WriteInternalError(w, "Failed to render flashcard")
		return
	}

	response.WritePNG(w, export.FileName(cards[index].Title, index+1), data)
}

type quizRequest struct {
	Summary string `json:"summary"`
}

// quizHandler generates a 10-question quiz from a summary
func (s *Server) quizHandler(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.Summary == "" {
		response.WriteBadRequest(w, "summary is required")
		return
	}

	generated, err := s.orchestrator.GenerateQuiz(r.Context(), req.Summary)
	if err != nil {
		writeStudyError(w, err)
		return
	}

	response.WriteOK(w, generated)
}

type scoreRequest struct {
	Questions []quiz.Question `json:"questions"`
	Answers   quiz.Answers    `json:"answers"`
}

// scoreHandler scores submitted answers against the quiz
func (s *Server) scoreHandler(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteBadRequest(w, "Invalid request body")
		return
	}
	if len(req.Questions) != quiz.Size {
		response.WriteBadRequest(w, "quiz must have exactly 10 questions")
		return
	}

	response.WriteOK(w, quiz.Evaluate(req.Questions, req.Answers))
}

// writeStudyError maps domain errors to HTTP responses
func writeStudyError(w http.ResponseWriter, err error) {
	var capErr *ai.CapabilityError
	switch {
	case errors.Is(err, article.ErrEmptyInput), errors.Is(err, article.ErrTooShort):
		response.WriteBadRequest(w, err.Error())
	case errors.Is(err, article.ErrFetchFailure):
		log.Printf("❌ Error fetching article: %v", err)
		response.WriteError(w, http.StatusBadGateway, "Unable to fetch article")
	case errors.As(err, &capErr):
		log.Printf("❌ AI capability unavailable capability=%s state=%s", capErr.Capability, capErr.State)
		response.WriteServiceUnavailable(w, capErr.Error())
	default:
		log.Printf("❌ Study request failed: %v", err)
		response.WriteInternalError(w, "Something went wrong, please try again")
	}
}
