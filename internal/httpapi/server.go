// Package httpapi is the thin HTTP surface over the core services.
// Handlers validate input, call one core operation and map its outcome to a
// status code; all behavior of interest lives in the internal packages.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/ruleforge/ruleforge/internal/catalog"
	"github.com/ruleforge/ruleforge/internal/indexer"
	"github.com/ruleforge/ruleforge/internal/rules"
	"github.com/ruleforge/ruleforge/internal/search"
	"github.com/ruleforge/ruleforge/internal/storage"
	"github.com/ruleforge/ruleforge/internal/summary"
)

// Server holds the core service dependencies for the HTTP handlers.
type Server struct {
	store      *catalog.Store
	pipeline   *indexer.Pipeline
	facade     *search.Facade
	syncer     *catalog.Syncer
	engine     *rules.Engine
	summarizer *summary.Summarizer
	index      *storage.QdrantIndex
	logger     *slog.Logger
}

// Config holds server dependencies.
type Config struct {
	Store      *catalog.Store
	Pipeline   *indexer.Pipeline
	Facade     *search.Facade
	Syncer     *catalog.Syncer
	Engine     *rules.Engine
	Summarizer *summary.Summarizer
	Index      *storage.QdrantIndex
	Logger     *slog.Logger
}

// NewServer creates the HTTP server wrapper.
func NewServer(cfg *Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:      cfg.Store,
		pipeline:   cfg.Pipeline,
		facade:     cfg.Facade,
		syncer:     cfg.Syncer,
		engine:     cfg.Engine,
		summarizer: cfg.Summarizer,
		index:      cfg.Index,
		logger:     logger,
	}
}

// Routes builds the request multiplexer.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", NewHealthHandler(s.index))

	mux.HandleFunc("POST /documents", s.handleCreateDocument)
	mux.HandleFunc("GET /documents/{id}", s.handleGetDocument)
	mux.HandleFunc("POST /documents/{id}/rules", s.handleGenerateRules)
	mux.HandleFunc("POST /documents/{id}/summary", s.handleSummarize)

	mux.HandleFunc("POST /variables", s.handleCreateVariable)
	mux.HandleFunc("POST /variables/bulk", s.handleBulkCreateVariables)
	mux.HandleFunc("GET /variables/{id}", s.handleGetVariable)
	mux.HandleFunc("POST /variables/sync", s.handleSync)
	mux.HandleFunc("POST /variables/resync", s.handleForceResync)

	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("GET /search/documents", s.handleSearchDocuments)
	mux.HandleFunc("GET /search/variables", s.handleSearchVariables)

	mux.HandleFunc("GET /index/info", s.handleIndexInfo)

	return mux
}

type createDocumentRequest struct {
	Filename     string `json:"filename"`
	DocumentType string `json:"document_type"`
	Content      string `json:"content"`
	FileSize     int64  `json:"file_size"`
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" || req.Filename == "" {
		writeError(w, http.StatusBadRequest, "filename and content are required")
		return
	}
	if req.DocumentType == "" {
		req.DocumentType = "contract"
	}
	if req.FileSize == 0 {
		req.FileSize = int64(len(req.Content))
	}

	doc := &catalog.DocumentRecord{
		ID:           uuid.New().String(),
		Filename:     req.Filename,
		DocumentType: req.DocumentType,
		Content:      req.Content,
		FileSize:     req.FileSize,
	}
	if err := s.store.InsertDocument(r.Context(), doc); err != nil {
		s.logger.Error("Document insert failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store document")
		return
	}

	// Indexing is best-effort and not transactional with the primary write.
	indexed := s.pipeline.IndexDocument(r.Context(), doc)

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":       "Document created successfully",
		"document_id":   doc.ID,
		"filename":      doc.Filename,
		"document_type": doc.DocumentType,
		"file_size":     doc.FileSize,
		"text_length":   len(doc.Content),
		"indexed":       indexed,
	})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.GetDocument(r.Context(), r.PathValue("id"))
	if errors.Is(err, catalog.ErrDocumentNotFound) {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load document")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"document_id":   doc.ID,
		"filename":      doc.Filename,
		"document_type": doc.DocumentType,
		"file_size":     doc.FileSize,
		"text_length":   len(doc.Content),
		"created_at":    doc.CreatedAt,
	})
}

func (s *Server) handleGenerateRules(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.GetDocument(r.Context(), r.PathValue("id"))
	if errors.Is(err, catalog.ErrDocumentNotFound) {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load document")
		return
	}

	ruleDoc := s.engine.GenerateRules(r.Context(), doc.Content, doc.DocumentType)
	writeJSON(w, http.StatusOK, map[string]any{
		"document_id": doc.ID,
		"rules":       ruleDoc,
	})
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.GetDocument(r.Context(), r.PathValue("id"))
	if errors.Is(err, catalog.ErrDocumentNotFound) {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load document")
		return
	}

	text := s.summarizer.Summarize(r.Context(), doc.Content, 0)
	writeJSON(w, http.StatusOK, map[string]any{
		"document_id": doc.ID,
		"summary":     text,
	})
}

type createVariableRequest struct {
	VariableType        string `json:"variable_type"`
	ParameterID         string `json:"parameter_id"`
	GroupParameter      string `json:"group_parameter"`
	VariableCode        string `json:"variable_code"`
	VariableName        string `json:"variable_name"`
	DesVarEng           string `json:"des_var_eng"`
	VariableDescription string `json:"variable_description"`
	CustomerLoanLevel   string `json:"customer_loan_level"`
	GroupLevel1         string `json:"group_level_1"`
	GroupLevel2         string `json:"group_level_2"`
}

func (r createVariableRequest) record() *catalog.VariableRecord {
	return &catalog.VariableRecord{
		VariableType:        r.VariableType,
		ParameterID:         r.ParameterID,
		GroupParameter:      r.GroupParameter,
		VariableCode:        r.VariableCode,
		VariableName:        r.VariableName,
		DesVarEng:           r.DesVarEng,
		VariableDescription: r.VariableDescription,
		CustomerLoanLevel:   r.CustomerLoanLevel,
		GroupLevel1:         r.GroupLevel1,
		GroupLevel2:         r.GroupLevel2,
	}
}

func (s *Server) handleCreateVariable(w http.ResponseWriter, r *http.Request) {
	var req createVariableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.VariableCode == "" || req.VariableName == "" {
		writeError(w, http.StatusBadRequest, "variable_code and variable_name are required")
		return
	}

	record := req.record()
	id, err := s.store.InsertVariable(r.Context(), record)
	if err != nil {
		s.logger.Error("Variable insert failed", "code", req.VariableCode, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store variable")
		return
	}
	record.ID = id

	indexed := s.pipeline.IndexVariables(r.Context(), []*catalog.VariableRecord{record})

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":         "Variable created successfully",
		"variable_id":     id,
		"variable_code":   record.VariableCode,
		"variable_name":   record.VariableName,
		"added_to_search": indexed > 0,
	})
}

func (s *Server) handleBulkCreateVariables(w http.ResponseWriter, r *http.Request) {
	var reqs []createVariableRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	records := make([]*catalog.VariableRecord, 0, len(reqs))
	for _, req := range reqs {
		if req.VariableCode == "" || req.VariableName == "" {
			writeError(w, http.StatusBadRequest, "variable_code and variable_name are required")
			return
		}
		record := req.record()
		id, err := s.store.InsertVariable(r.Context(), record)
		if err != nil {
			s.logger.Error("Variable insert failed", "code", req.VariableCode, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to store variables")
			return
		}
		record.ID = id
		records = append(records, record)
	}

	indexed := s.pipeline.IndexVariables(r.Context(), records)

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":           "Variables created successfully",
		"variables_created": len(records),
		"added_to_search":   indexed,
	})
}

func (s *Server) handleGetVariable(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid variable id")
		return
	}
	record, err := s.store.GetVariable(r.Context(), id)
	if errors.Is(err, catalog.ErrVariableNotFound) {
		writeError(w, http.StatusNotFound, "variable not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load variable")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	result, err := s.syncer.SyncFromStore(r.Context())
	if err != nil {
		s.logger.Error("Variable sync failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Sync completed",
		"sync_result": result,
	})
}

func (s *Server) handleForceResync(w http.ResponseWriter, r *http.Request) {
	result, err := s.syncer.ForceResync(r.Context())
	if err != nil {
		s.logger.Error("Variable force resync failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Force resync completed",
		"sync_result": result,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.search(w, r, r.URL.Query().Get("type"))
}

func (s *Server) handleSearchDocuments(w http.ResponseWriter, r *http.Request) {
	s.search(w, r, storage.PointTypeDocument)
}

func (s *Server) handleSearchVariables(w http.ResponseWriter, r *http.Request) {
	s.search(w, r, storage.PointTypeVariable)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request, filterType string) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	threshold, _ := strconv.ParseFloat(r.URL.Query().Get("threshold"), 64)

	results := s.facade.SemanticSearch(r.Context(), query, limit, threshold, filterType)
	writeJSON(w, http.StatusOK, map[string]any{
		"query":         query,
		"search_type":   filterType,
		"results_count": len(results),
		"results":       results,
	})
}

func (s *Server) handleIndexInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.index.GetCollectionInfo(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get collection info")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"collection_name": storage.CollectionName,
		"points_count":    info.PointsCount,
		"enabled":         s.index.Enabled(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
