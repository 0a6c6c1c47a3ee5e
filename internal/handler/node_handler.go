package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"node-manager/internal/model"
	"node-manager/internal/service"
	"node-manager/pkg/utils"
)

const maxConfigureBody = 64 << 10

type NodeHandler struct {
	nodeService *service.NodeService
}

func NewNodeHandler(nodeService *service.NodeService) *NodeHandler {
	return &NodeHandler{
		nodeService: nodeService,
	}
}

func (h *NodeHandler) Status(c *gin.Context) {
	resp, apiErr := h.nodeService.GetStatus(c.Request.Context())
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *NodeHandler) Configure(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxConfigureBody)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		writeError(c, utils.NewValidationError(err))
		return
	}

	resp, apiErr := h.nodeService.Configure(c.Request.Context(), body)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *NodeHandler) Restart(c *gin.Context) {
	resp, apiErr := h.nodeService.Restart(c.Request.Context())
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// NotFound answers unmatched routes with plain text, unlike in-domain errors.
func NotFound(c *gin.Context) {
	c.String(http.StatusNotFound, "Not Found")
}

func writeError(c *gin.Context, apiErr *utils.APIError) {
	c.JSON(apiErr.Code, model.NewErrorResponse(apiErr.Message))
}
