package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"content_repurposer/chat"
	"content_repurposer/extractor"
	"content_repurposer/generator"
	"content_repurposer/logger"
	"content_repurposer/pipeline"
	"content_repurposer/publisher"
)

type textResponse struct {
	Text string `json:"text"`
}

type urlRequest struct {
	URL string `json:"url"`
}

type transformRequest struct {
	Text string `json:"text"`
}

type chatRequest struct {
	Messages []chat.Turn `json:"messages"`
	Context  string      `json:"context"`
}

type repurposeRequest struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

func (s *Server) handleParseDocument(w http.ResponseWriter, r *http.Request) {
	src, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	text, err := s.pipeline.Resolve(r.Context(), src)
	if err != nil {
		s.fail(w, r, err, msgParseDocument)
		return
	}
	s.writer.WriteSuccessResponse(w, textResponse{Text: text})
}

func (s *Server) handleParseURL(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if !s.decode(w, r, &req, msgInvalidBody) {
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		s.writer.WriteErrorResponse(w, http.StatusBadRequest, msgNoURL)
		return
	}
	text, err := s.pipeline.Resolve(r.Context(), pipeline.URLSource(req.URL))
	if err != nil {
		s.fail(w, r, err, msgInternal)
		return
	}
	s.writer.WriteSuccessResponse(w, textResponse{Text: text})
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	var req transformRequest
	if !s.decode(w, r, &req, msgInvalidBody) {
		return
	}
	bundle, err := s.pipeline.Transform(r.Context(), req.Text)
	if err != nil {
		s.fail(w, r, err, msgInternal)
		return
	}
	s.writer.WriteSuccessResponse(w, bundle)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !s.decode(w, r, &req, msgInvalidMessages) {
		return
	}
	turn, err := s.pipeline.Chat(r.Context(), req.Messages, req.Context)
	if err != nil {
		s.fail(w, r, err, msgChatFailed)
		return
	}
	s.writer.WriteSuccessResponse(w, turn)
}

// handleRepurpose accepts a multipart upload or a JSON body naming text or
// url, and returns the resolved text with its bundle.
func (s *Server) handleRepurpose(w http.ResponseWriter, r *http.Request) {
	var src pipeline.SourceInput
	if isMultipart(r) {
		var ok bool
		if src, ok = s.readUpload(w, r); !ok {
			return
		}
	} else {
		var req repurposeRequest
		if !s.decode(w, r, &req, msgInvalidBody) {
			return
		}
		switch {
		case req.Text != "" && req.URL != "", req.Text == "" && req.URL == "":
			s.writer.WriteErrorResponse(w, http.StatusBadRequest, msgInvalidInput)
			return
		case req.URL != "":
			src = pipeline.URLSource(req.URL)
		default:
			src = pipeline.TextSource(req.Text)
		}
	}

	res, err := s.pipeline.Repurpose(r.Context(), src)
	if err != nil {
		s.fail(w, r, err, msgInternal)
		return
	}
	s.writer.WriteSuccessResponse(w, res)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var bundle generator.Bundle
	if !s.decode(w, r, &bundle, msgInvalidBody) {
		return
	}
	page, err := s.publisher.Render(bundle)
	if err != nil {
		if errors.Is(err, publisher.ErrEmptyBundle) {
			s.writer.WriteErrorResponse(w, http.StatusBadRequest, msgEmptyBundle)
			return
		}
		s.fail(w, r, err, msgInternal)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, page)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writer.WriteSuccessResponse(w, map[string]any{
		"status":    "ok",
		"generator": s.hasGen,
	})
}

// readUpload reads the "file" part of a multipart request into a file
// source. It writes the error response itself and reports false on failure.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (pipeline.SourceInput, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMaxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writer.WriteErrorResponse(w, http.StatusBadRequest, msgTooLarge)
			return pipeline.SourceInput{}, false
		}
		s.writer.WriteErrorResponse(w, http.StatusBadRequest, msgNoFile)
		return pipeline.SourceInput{}, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writer.WriteErrorResponse(w, http.StatusBadRequest, msgNoFile)
		return pipeline.SourceInput{}, false
	}
	defer file.Close()

	if header.Size > s.maxUpload {
		s.writer.WriteErrorResponse(w, http.StatusBadRequest, msgTooLarge)
		return pipeline.SourceInput{}, false
	}
	data, err := io.ReadAll(file)
	if err != nil {
		s.fail(w, r, err, msgParseDocument)
		return pipeline.SourceInput{}, false
	}

	mimeType := extractor.ResolveMimeType(header.Header.Get("Content-Type"), header.Filename)
	s.logger.DebugContext(r.Context(), "upload received", "filename", header.Filename, "mime", mimeType, "bytes", len(data))
	if mimeType == "" {
		s.writer.WriteErrorResponse(w, http.StatusBadRequest, msgUnsupported)
		return pipeline.SourceInput{}, false
	}
	return pipeline.FileSource(data, mimeType), true
}

// decode reads a JSON body into v, answering 400 with msg when it is
// malformed.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any, msg string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.logger.DebugContext(r.Context(), "invalid request body", logger.Err(err))
		s.writer.WriteErrorResponse(w, http.StatusBadRequest, msg)
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status, msg := classify(err, fallback)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "status", status, logger.Err(err))
	} else {
		s.logger.InfoContext(r.Context(), "request rejected", "path", r.URL.Path, "status", status, logger.Err(err))
	}
	s.writer.WriteErrorResponse(w, status, msg)
}

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}
