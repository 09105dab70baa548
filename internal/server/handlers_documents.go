package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/talent-match/internal/db"
	"github.com/jonathan/talent-match/internal/embedding"
	"github.com/jonathan/talent-match/internal/ingestion"
	"github.com/jonathan/talent-match/internal/types"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			errorResponse(w, http.StatusRequestEntityTooLarge, "file too large")
		case errors.Is(err, http.ErrNotMultipart):
			errorResponse(w, http.StatusBadRequest, "no file uploaded")
		default:
			errorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		}
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	if header.Size > s.maxUpload {
		errorResponse(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}
	if len(data) == 0 {
		errorResponse(w, http.StatusBadRequest, "uploaded file is empty")
		return
	}

	up := ingestion.Upload{
		OwnerID:  userID,
		Filename: header.Filename,
		Data:     data,
		Kind:     types.DocumentKind(strings.TrimSpace(r.FormValue("kind"))),
	}

	if raw := strings.TrimSpace(r.FormValue("candidate_id")); raw != "" {
		candidateID, err := uuid.Parse(raw)
		if err != nil {
			errorResponse(w, http.StatusBadRequest, "Invalid candidate ID")
			return
		}
		candidate, err := s.store.GetCandidate(r.Context(), userID, candidateID)
		if err != nil {
			failure(w, s.logger, err, "Failed to get candidate")
			return
		}
		if candidate == nil {
			errorResponse(w, http.StatusNotFound, "Candidate not found")
			return
		}
		up.CandidateID = &candidateID
	}

	if up.Kind == types.KindCertificate {
		cert := &types.CertificateDetails{
			Institution: strings.TrimSpace(r.FormValue("institution")),
			Title:       strings.TrimSpace(r.FormValue("title")),
			DateIssued:  strings.TrimSpace(r.FormValue("date_issued")),
		}
		if err := s.validate.Struct(cert); err != nil {
			errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
			return
		}
		up.Certificate = cert
	}

	res, err := s.ingestor.Ingest(r.Context(), up)
	if err != nil && (res == nil || res.Document == nil) {
		failure(w, s.logger, err, "Failed to store document")
		return
	}

	resp := types.UploadResponse{
		Document:    res.Document.Summary(),
		Status:      res.Status,
		Fields:      res.Fields,
		CandidateID: res.CandidateID,
	}

	switch {
	case err != nil:
		status := HTTPStatus(err)
		resp.Message = "document processing failed"
		if errors.Is(err, embedding.ErrEmbeddingUnavailable) {
			resp.Message = "embedding service unavailable; document stored unprocessed"
		}
		s.logger.Error("document processing failed",
			zap.String("document_id", res.Document.ID.String()), zap.Error(err))
		jsonResponse(w, status, resp)
	case res.Status == types.StatusUnreadable:
		resp.Message = "no text could be extracted; document stored unprocessed"
		jsonResponse(w, http.StatusOK, resp)
	default:
		jsonResponse(w, http.StatusOK, resp)
	}
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	docs, err := s.store.ListDocuments(r.Context(), userID)
	if err != nil {
		failure(w, s.logger, err, "Failed to list documents")
		return
	}
	jsonResponse(w, http.StatusOK, summaries(docs))
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "document")
	if !ok {
		return
	}

	doc, err := s.store.GetDocument(r.Context(), userID, id)
	if err != nil {
		failure(w, s.logger, err, "Failed to get document")
		return
	}
	if doc == nil {
		errorResponse(w, http.StatusNotFound, "Document not found")
		return
	}
	jsonResponse(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "document")
	if !ok {
		return
	}

	if err := s.store.DeleteDocument(r.Context(), userID, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			errorResponse(w, http.StatusNotFound, "Document not found")
			return
		}
		failure(w, s.logger, err, "Failed to delete document")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleLinkDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "document")
	if !ok {
		return
	}

	var req types.LinkDocumentRequest
	if !decodeAndValidate(w, r, s.validate, &req) {
		return
	}

	if err := s.store.LinkDocument(r.Context(), userID, id, req.CandidateID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			errorResponse(w, http.StatusNotFound, "Document or candidate not found")
			return
		}
		failure(w, s.logger, err, "Failed to link document")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "linked"})
}

func summaries(docs []db.Document) []types.DocumentSummary {
	out := make([]types.DocumentSummary, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].Summary())
	}
	return out
}
