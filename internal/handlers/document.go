package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/board-api/internal/dto"
	apierrors "github.com/yukikurage/board-api/internal/errors"
	"github.com/yukikurage/board-api/internal/services"
)

type DocumentHandler struct {
	documentService *services.DocumentService
}

func NewDocumentHandler(documentService *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// UploadDocument stores the multipart "file" field of the request
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	scope, ok := projectScope(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "A file is required")
		return
	}

	file, err := header.Open()
	if err != nil {
		apierrors.BadRequest(c, "Failed to read file")
		return
	}
	defer file.Close()

	doc, err := h.documentService.UploadDocument(c.Request.Context(), scope, services.UploadInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToDocumentDTO(*doc))
}

func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	scope, ok := projectScope(c)
	if !ok {
		return
	}

	docs, err := h.documentService.ListDocuments(scope)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]dto.DocumentDTO, len(docs))
	for i, d := range docs {
		items[i] = dto.ToDocumentDTO(d)
	}
	c.JSON(http.StatusOK, gin.H{"documents": items})
}

// DownloadDocument streams the document content
func (h *DocumentHandler) DownloadDocument(c *gin.Context) {
	scope, ok := projectScope(c)
	if !ok {
		return
	}
	docID, ok := pathID(c, "documentId", "Document")
	if !ok {
		return
	}

	doc, rc, err := h.documentService.OpenDocument(c.Request.Context(), scope, docID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", doc.ContentType)
	c.Header("Content-Length", strconv.FormatInt(doc.Size, 10))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.OriginalName))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		log.Printf("Failed to stream document %s: %v", doc.ID, err)
	}
}

func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	scope, ok := projectScope(c)
	if !ok {
		return
	}
	docID, ok := pathID(c, "documentId", "Document")
	if !ok {
		return
	}

	if err := h.documentService.DeleteDocument(c.Request.Context(), scope, docID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
