package importing

import (
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
)

type Stage string

const (
	StageIdle      Stage = "idle"
	StageAnalyzed  Stage = "analyzed"
	StageMapped    Stage = "mapped"
	StagePreviewed Stage = "previewed"
	StageConfirmed Stage = "confirmed"
	StageFailed    Stage = "failed"
)

var (
	ErrEmptySheet       = gerrors.New("sheet has no rows")
	ErrEmptyHeader      = gerrors.New("sheet has no header row")
	ErrSessionFailed    = gerrors.New("import session already failed")
	ErrAlreadyConfirmed = gerrors.New("import session already confirmed")
	ErrNotPreviewed     = gerrors.New("import session has no preview to confirm")
	ErrNotAnalyzed      = gerrors.New("import session was not analyzed")
)

// Session owns one import workflow from upload to confirm. Purely in-memory:
// an abandoned session expires with no side effect.
type Session struct {
	id        uuid.UUID
	stage     Stage
	createdAt time.Time
	touchedAt time.Time

	header   []string
	rows     []SheetRow
	detected []DetectedColumn
	match    MatchResult
	mapping  Mapping
	staged   []StagedRecord
	verdicts []Verdict
	errors   []string
}

// NewSession validates the structural shape of the upload. A missing header
// row or an empty sheet is terminal: the returned session is already Failed.
func NewSession(header []string, rows []SheetRow) (*Session, error) {
	s := &Session{
		id:        uuid.New(),
		stage:     StageIdle,
		createdAt: time.Now(),
		touchedAt: time.Now(),
		header:    header,
		rows:      rows,
	}

	if len(header) == 0 || allBlank(header) {
		s.fail(ErrEmptyHeader.Error())
		return s, ErrEmptyHeader
	}
	if len(rows) == 0 {
		s.fail(ErrEmptySheet.Error())
		return s, ErrEmptySheet
	}
	return s, nil
}

func allBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (s *Session) ID() uuid.UUID              { return s.id }
func (s *Session) Stage() Stage               { return s.stage }
func (s *Session) CreatedAt() time.Time       { return s.createdAt }
func (s *Session) TouchedAt() time.Time       { return s.touchedAt }
func (s *Session) Header() []string           { return s.header }
func (s *Session) Rows() []SheetRow           { return s.rows }
func (s *Session) Detected() []DetectedColumn { return s.detected }
func (s *Session) Match() MatchResult         { return s.match }
func (s *Session) Mapping() Mapping           { return s.mapping }
func (s *Session) Staged() []StagedRecord     { return s.staged }
func (s *Session) Verdicts() []Verdict        { return s.verdicts }
func (s *Session) Errors() []string           { return s.errors }

func (s *Session) touch() { s.touchedAt = time.Now() }

func (s *Session) fail(reason string) {
	s.stage = StageFailed
	s.errors = append(s.errors, reason)
	s.touch()
}

// MarkAnalyzed records the matcher output. Idle → Analyzed.
func (s *Session) MarkAnalyzed(match MatchResult, detected []DetectedColumn) error {
	if s.stage == StageFailed {
		return ErrSessionFailed
	}
	if s.stage != StageIdle {
		return gerrors.Errorf("cannot analyze session in stage %s", s.stage)
	}
	s.match = match
	s.detected = detected
	s.errors = append(s.errors, match.Warnings...)
	s.stage = StageAnalyzed
	s.touch()
	return nil
}

// ApplyMapping confirms a mapping. Allowed from Analyzed (first pass) and
// from Mapped/Previewed (the user revised the mapping and wants a new
// preview); validation failures leave the stage untouched.
func (s *Session) ApplyMapping(m Mapping) []string {
	switch s.stage {
	case StageAnalyzed, StageMapped, StagePreviewed:
	default:
		return []string{gerrors.Errorf("cannot map session in stage %s", s.stage).Error()}
	}

	if problems := ValidateMapping(m, s.header); len(problems) > 0 {
		return problems
	}

	s.mapping = m
	s.staged = nil
	s.verdicts = nil
	s.stage = StageMapped
	s.touch()
	return nil
}

// SetPreview records the transformed batch and its verdicts. Mapped → Previewed.
func (s *Session) SetPreview(staged []StagedRecord, verdicts []Verdict) error {
	if s.stage != StageMapped && s.stage != StagePreviewed {
		return gerrors.Errorf("cannot preview session in stage %s", s.stage)
	}
	s.staged = staged
	s.verdicts = verdicts
	s.stage = StagePreviewed
	s.touch()
	return nil
}

// BeginConfirm guards the only transition with external side effects.
// It succeeds exactly once per session.
func (s *Session) BeginConfirm() error {
	switch s.stage {
	case StageConfirmed:
		return ErrAlreadyConfirmed
	case StageFailed:
		return ErrSessionFailed
	case StagePreviewed:
		s.stage = StageConfirmed
		s.touch()
		return nil
	default:
		return ErrNotPreviewed
	}
}

// RecordError appends a non-fatal workflow error to the session log.
func (s *Session) RecordError(reason string) {
	s.errors = append(s.errors, reason)
	s.touch()
}

// Expired reports whether the session passed its idle TTL.
func (s *Session) Expired(ttl time.Duration, now time.Time) bool {
	return now.Sub(s.touchedAt) > ttl
}
