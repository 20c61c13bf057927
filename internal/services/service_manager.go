package services

import (
	"time"

	"github.com/SAP-F-2025/seminar-service/internal/auth"
	"github.com/SAP-F-2025/seminar-service/internal/events"
	"github.com/SAP-F-2025/seminar-service/internal/pending"
	"github.com/SAP-F-2025/seminar-service/internal/repositories"
	"github.com/SAP-F-2025/seminar-service/internal/storage"
	"github.com/SAP-F-2025/seminar-service/internal/utils"
	"github.com/SAP-F-2025/seminar-service/internal/validator"
)

// ServiceManager wires and owns every service. Shutdown releases the
// resources the services hold (pending stores, event publisher).
type ServiceManager interface {
	Auth() AuthService
	Topic() TopicService
	Report() ReportService
	User() UserService
	Export() ExportService
	Shutdown() error
}

// Dependencies carries everything the services need; main assembles it once.
type Dependencies struct {
	Repo       repositories.Repository
	Tokens     *auth.TokenIssuer
	RegStore   pending.Store[RegistrationPayload]
	ResetStore pending.Store[ResetPayload]
	Files      storage.FileStore
	Bus        *events.Bus
	Publisher  events.EventPublisher
	Validator  *validator.Validator
	Logger     utils.Logger
	OTPTTL     time.Duration
}

type serviceManager struct {
	deps   Dependencies
	auth   AuthService
	topic  TopicService
	report ReportService
	user   UserService
	export ExportService
}

func NewServiceManager(deps Dependencies) ServiceManager {
	return &serviceManager{
		deps: deps,
		auth: NewAuthService(
			deps.Repo, deps.Tokens, deps.RegStore, deps.ResetStore,
			deps.Bus, deps.Publisher, deps.Validator, deps.Logger, deps.OTPTTL,
		),
		topic:  NewTopicService(deps.Repo, deps.Publisher, deps.Validator, deps.Logger),
		report: NewReportService(deps.Repo, deps.Files, deps.Publisher, deps.Validator, deps.Logger),
		user:   NewUserService(deps.Repo, deps.Validator, deps.Logger),
		export: NewExportService(deps.Repo, deps.Logger),
	}
}

func (m *serviceManager) Auth() AuthService     { return m.auth }
func (m *serviceManager) Topic() TopicService   { return m.topic }
func (m *serviceManager) Report() ReportService { return m.report }
func (m *serviceManager) User() UserService     { return m.user }
func (m *serviceManager) Export() ExportService { return m.export }

func (m *serviceManager) Shutdown() error {
	var firstErr error
	if m.deps.RegStore != nil {
		if err := m.deps.RegStore.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if m.deps.ResetStore != nil {
		if err := m.deps.ResetStore.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if m.deps.Publisher != nil {
		if err := m.deps.Publisher.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
