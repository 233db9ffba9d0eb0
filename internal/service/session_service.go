package service

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/teachmate/internal/command"
	"github.com/noah-isme/teachmate/internal/models"
	"github.com/noah-isme/teachmate/internal/parser"
	"github.com/noah-isme/teachmate/internal/repository"
	appErrors "github.com/noah-isme/teachmate/pkg/errors"
)

type rosterRepository interface {
	Load(ctx context.Context) ([]models.Person, error)
	Save(ctx context.Context, persons []models.Person) error
}

type snapshotPublisher interface {
	Publish(ctx context.Context, persons []models.Person) error
}

type commandParser interface {
	ParseCommand(line string) (command.Command, error)
}

type commandExecutor interface {
	Execute(store command.Store, cmd command.Command) (command.Result, error)
}

// SessionService runs command lines against the roster one at a time:
// parse, execute, then persist when the roster changed. It is not safe for
// concurrent use.
type SessionService struct {
	id       string
	store    *repository.RosterStore
	parser   commandParser
	executor commandExecutor
	repo     rosterRepository
	snapshot snapshotPublisher
	metrics  *MetricsService
	logger   *zap.Logger
	known    map[string]struct{}
}

// NewSessionService constructs a session over an empty roster. Call Open to
// load the data file. snapshot and metrics may be nil.
func NewSessionService(p commandParser, executor commandExecutor, repo rosterRepository, snapshot snapshotPublisher, metrics *MetricsService, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if p == nil {
		p = parser.New()
	}
	if executor == nil {
		executor = command.NewExecutor(logger)
	}
	store, _ := repository.NewRosterStore()
	known := make(map[string]struct{})
	for _, w := range parser.Words() {
		known[w] = struct{}{}
	}
	id := uuid.NewString()
	return &SessionService{
		id:       id,
		store:    store,
		parser:   p,
		executor: executor,
		repo:     repo,
		snapshot: snapshot,
		metrics:  metrics,
		logger:   logger.With(zap.String("session_id", id)),
		known:    known,
	}
}

// ID identifies the session in logs.
func (s *SessionService) ID() string { return s.id }

// Open loads the roster from the data file. When the file cannot be read
// the session starts with an empty roster and the error is returned so the
// caller can warn the user.
func (s *SessionService) Open(ctx context.Context) error {
	persons, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Warn("data file could not be loaded, starting with an empty roster", zap.Error(err))
		return err
	}
	if err := s.store.SetPersons(persons); err != nil {
		return appErrors.Clone(appErrors.ErrStorage, err.Error())
	}
	s.metrics.SetRosterSize(s.store.Len())
	s.logger.Info("roster loaded", zap.Int("persons", s.store.Len()))
	return nil
}

// Persons returns the full roster.
func (s *SessionService) Persons() []models.Person { return s.store.Persons() }

// Displayed returns the persons matching the current display predicate.
func (s *SessionService) Displayed() []models.Person { return s.store.Filtered() }

// Run parses and executes one command line. A failed command leaves the
// roster unchanged. When a mutating command succeeds but the data file
// cannot be written, the result is returned together with a storage error;
// the in-memory roster keeps the change.
func (s *SessionService) Run(ctx context.Context, line string) (command.Result, error) {
	start := time.Now()

	cmd, err := s.parser.ParseCommand(line)
	if err != nil {
		word := s.wordOf(line)
		s.metrics.ObserveCommand(word, OutcomeFormatError, time.Since(start))
		s.logger.Debug("command rejected", zap.String("command", word), zap.String("reason", err.Error()))
		return command.Result{}, err
	}
	word := command.Word(cmd)

	res, err := s.executor.Execute(s.store, cmd)
	if err != nil {
		s.metrics.ObserveCommand(word, OutcomeExecError, time.Since(start))
		s.logger.Debug("command failed", zap.String("command", word), zap.String("reason", err.Error()))
		return command.Result{}, err
	}

	if res.Mutated {
		if err := s.persist(ctx); err != nil {
			s.metrics.ObserveCommand(word, OutcomeStorageError, time.Since(start))
			return res, err
		}
	}

	s.metrics.ObserveCommand(word, OutcomeSuccess, time.Since(start))
	s.logger.Info("command executed",
		zap.String("command", word),
		zap.Bool("mutated", res.Mutated),
		zap.Duration("duration", time.Since(start)),
	)
	return res, nil
}

// persist writes the roster and mirrors it to the snapshot store. Snapshot
// failures are logged only.
func (s *SessionService) persist(ctx context.Context) error {
	persons := s.store.Persons()
	s.metrics.SetRosterSize(len(persons))

	saveStart := time.Now()
	err := s.repo.Save(ctx, persons)
	s.metrics.ObserveSave(err, time.Since(saveStart))
	if err != nil {
		s.logger.Warn("failed to save roster", zap.Error(err))
		if appErrors.FromError(err).Kind != appErrors.KindStorage {
			return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.KindStorage, appErrors.ErrStorage.Message)
		}
		return err
	}

	if s.snapshot != nil {
		err := s.snapshot.Publish(ctx, persons)
		s.metrics.ObserveSnapshot(err)
		if err != nil {
			s.logger.Warn("failed to publish roster snapshot", zap.Error(err))
		}
	}
	return nil
}

// wordOf returns the command word of line for metric labels, or "unknown".
func (s *SessionService) wordOf(line string) string {
	fields := strings.FieldsFunc(line, unicode.IsSpace)
	if len(fields) == 0 {
		return "empty"
	}
	if _, ok := s.known[fields[0]]; ok {
		return fields[0]
	}
	return "unknown"
}
