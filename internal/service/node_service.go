package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"node-manager/internal/model"
	"node-manager/internal/pkg/logger"
	"node-manager/internal/pkg/runner"
	"node-manager/internal/pkg/store"
	"node-manager/pkg/utils"
)

const (
	msgConfigured = "node configured successfully"
	msgRestarted  = "server restarted"
)

// Runner is the subset of *runner.Runner the service needs.
type Runner interface {
	Run(ctx context.Context, command string) (*runner.Result, error)
	RunWithTimeout(ctx context.Context, command string, timeout time.Duration) (*runner.Result, error)
}

type Commands struct {
	Status       string
	Setup        string
	Restart      string
	SetupTimeout time.Duration
}

type NodeService struct {
	runner   Runner
	store    store.Store
	commands Commands
	logger   *logger.Logger

	configureMu sync.Mutex
	restartMu   sync.Mutex
}

func NewNodeService(r Runner, s store.Store, commands Commands, log *logger.Logger) *NodeService {
	if log == nil {
		log = logger.Nop()
	}
	return &NodeService{
		runner:   r,
		store:    s,
		commands: commands,
		logger:   log,
	}
}

// GetStatus returns the status command's stdout once the node is fully
// configured.
func (s *NodeService) GetStatus(ctx context.Context) (*model.StatusResponse, *utils.APIError) {
	hasCredential, err := s.store.HasCredential()
	if err != nil {
		return nil, s.fail("status", utils.MsgStatusFailed, err)
	}
	if !hasCredential {
		if done, err := s.store.HasSetupCompleted(); err == nil && done {
			s.logger.Warn("setup marker present without credential, treating node as not configured")
		}
		return nil, utils.NewPreconditionError(utils.MsgNotConfigured)
	}

	setupDone, err := s.store.HasSetupCompleted()
	if err != nil {
		return nil, s.fail("status", utils.MsgStatusFailed, err)
	}
	if !setupDone {
		return nil, utils.NewPreconditionError(utils.MsgNotReady)
	}

	result, err := s.runner.Run(ctx, s.commands.Status)
	if err != nil {
		return nil, s.fail("status", utils.MsgStatusFailed, err)
	}

	resp := model.NewStatusResponse(result.Stdout)
	return &resp, nil
}

// Configure validates body, persists the sanitized credential and runs the
// setup command with it. Calls are serialized end to end.
func (s *NodeService) Configure(ctx context.Context, body []byte) (*model.MessageResponse, *utils.APIError) {
	s.configureMu.Lock()
	defer s.configureMu.Unlock()

	// BindBody stops after the first JSON value; trailing data is rejected here.
	if !json.Valid(body) {
		return nil, utils.NewValidationError(errors.New("body must be a single JSON value"))
	}
	var req model.ConfigureRequest
	if err := binding.JSON.BindBody(body, &req); err != nil {
		return nil, utils.NewValidationError(err)
	}
	if req.APIKey == nil {
		return nil, utils.NewValidationError(errors.New("api_key is required"))
	}

	credential := utils.SanitizeCredential(*req.APIKey)
	if credential == "" {
		return nil, utils.NewValidationError(errors.New("api_key has no allowed characters"))
	}
	if len(credential) != len(*req.APIKey) {
		s.logger.Warn("api_key contained disallowed characters",
			zap.Int("removed", len(*req.APIKey)-len(credential)))
	}

	if err := s.store.WriteCredential(credential); err != nil {
		return nil, s.fail("configure", utils.MsgConfigureFailed, err)
	}

	command := s.commands.Setup + " " + credential
	if _, err := s.runner.RunWithTimeout(ctx, command, s.commands.SetupTimeout); err != nil {
		return nil, s.fail("configure", utils.MsgConfigureFailed, err)
	}

	if err := s.store.MarkSetupComplete(); err != nil {
		return nil, s.fail("configure", utils.MsgConfigureFailed, err)
	}

	s.logger.Info("node configured")
	resp := model.NewMessageResponse(msgConfigured)
	return &resp, nil
}

// Restart runs the restart command whatever the configuration state.
func (s *NodeService) Restart(ctx context.Context) (*model.MessageResponse, *utils.APIError) {
	s.restartMu.Lock()
	defer s.restartMu.Unlock()

	if _, err := s.runner.Run(ctx, s.commands.Restart); err != nil {
		return nil, s.fail("restart", utils.MsgRestartFailed, err)
	}

	resp := model.NewMessageResponse(msgRestarted)
	return &resp, nil
}

func (s *NodeService) fail(op, message string, err error) *utils.APIError {
	s.logger.OperationFailed(op, err)
	return utils.NewInternalError(message, fmt.Errorf("%s: %w", op, err))
}
