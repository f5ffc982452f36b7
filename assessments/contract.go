// SPDX-License-Identifier: ice License 1.0

package assessments

import (
	"context"
	_ "embed"
	"io"
	"sync"
	stdlibtime "time"

	"github.com/pkg/errors"

	messagebroker "github.com/ice-blockchain/wintr/connectors/message_broker"
	"github.com/ice-blockchain/wintr/connectors/storage/v2"
	"github.com/ice-blockchain/wintr/time"
)

// Public API.

const (
	MultipleChoiceQuestionType QuestionType = "multiple_choice"
	TrueFalseQuestionType      QuestionType = "true_false"
	ShortAnswerQuestionType    QuestionType = "short_answer"
)

const (
	InProgressAttemptStatus AttemptStatus = "in_progress"
	SubmittedAttemptStatus  AttemptStatus = "submitted"
)

const (
	DefaultPassingScore = 70
)

var (
	ErrAttemptLimitExceeded = errors.New("attempt limit exceeded")
	ErrAttemptAlreadyActive = errors.New("attempt already active")
	ErrAttemptNotActive     = errors.New("attempt not active")
	ErrAttemptNotFound      = errors.New("attempt not found")
	ErrUnknownQuestion      = errors.New("unknown question")
	ErrAssessmentNotFound   = errors.New("assessment not found")
	ErrStorageUnavailable   = errors.New("storage unavailable")
	ErrRaceCondition        = errors.New("race condition")
	ErrInvalidAssessment    = errors.New("invalid assessment")

	//nolint:gochecknoglobals // It's just for more descriptive validation messages.
	TrueFalseOptions = []string{"True", "False"}
)

type (
	UserID        = string
	QuestionType  string
	AttemptStatus string
	Answers       map[string]string
	Assessment    struct {
		PassingScore     *uint8  `json:"passingScore,omitempty" db:"passing_score" example:"70"`
		TimeLimitMinutes *uint32 `json:"timeLimitMinutes,omitempty" db:"time_limit_minutes" example:"30"`
		MaxAttempts      *uint32 `json:"maxAttempts,omitempty" db:"max_attempts" example:"3"`
		ID               string  `json:"id" db:"id" example:"go-basics"`
		Title            string  `json:"title" db:"title" example:"Go basics"`
	}
	Question struct {
		ID            string       `json:"id" db:"id" example:"q1"`
		AssessmentID  string       `json:"assessmentId,omitempty" db:"assessment_id" example:"go-basics"`
		Type          QuestionType `json:"type" db:"type" example:"multiple_choice"`
		Text          string       `json:"text" db:"text" example:"Which keyword starts a goroutine?"`
		CorrectAnswer string       `json:"correctAnswer" db:"correct_answer" example:"go"`
		Options       []string     `json:"options,omitempty" db:"options" example:"go,defer,func"`
		Points        uint32       `json:"points" db:"points" example:"1"`
		Position      uint32       `json:"position" db:"position" example:"1"`
	}
	// QuestionView is what the candidate sees: the answer key is never included.
	QuestionView struct {
		ID      string       `json:"id" example:"q1"`
		Type    QuestionType `json:"type" example:"multiple_choice"`
		Text    string       `json:"text" example:"Which keyword starts a goroutine?"`
		Options []string     `json:"options,omitempty" example:"go,defer,func"`
		Points  uint32       `json:"points" example:"1"`
	}
	// Snapshot freezes the assessment definition at the time the attempt started,
	// so later edits of the question bank never change how an attempt is graded.
	Snapshot struct {
		Assessment *Assessment `json:"assessment"`
		Questions  []*Question `json:"questions"`
	}
	Attempt struct {
		StartedAt        *time.Time    `json:"startedAt" db:"started_at" example:"2022-01-03T16:20:52.156534Z"`
		SubmittedAt      *time.Time    `json:"submittedAt,omitempty" db:"submitted_at" example:"2022-01-03T16:20:52.156534Z"`
		Deadline         *time.Time    `json:"deadline,omitempty" db:"deadline" example:"2022-01-03T16:20:52.156534Z"`
		Snapshot         *Snapshot     `json:"-" db:"snapshot"`
		Answers          Answers       `json:"answers" db:"answers"`
		Score            *uint8        `json:"score,omitempty" db:"score" example:"75"`
		Passed           *bool         `json:"passed,omitempty" db:"passed" example:"true"`
		PointsEarned     *uint32       `json:"pointsEarned,omitempty" db:"points_earned" example:"3"`
		PointsPossible   *uint32       `json:"pointsPossible,omitempty" db:"points_possible" example:"4"`
		ID               string        `json:"id" db:"id" example:"8c8a4f4e-6c54-4b3e-a0a4-9b1f3c1a2f11"`
		AssessmentID     string        `json:"assessmentId" db:"assessment_id" example:"go-basics"`
		UserID           UserID        `json:"userId" db:"user_id" example:"did:ethr:0x4B73C58370AEfcEf86A6021afCDe5673511376B2"`
		Status           AttemptStatus `json:"status" db:"status" example:"in_progress"`
		SnapshotChecksum string        `json:"-" db:"snapshot_checksum"`
		Revision         uint64        `json:"-" db:"revision"`
		AttemptNumber    uint32        `json:"attemptNumber" db:"attempt_number" example:"1"`
		TimeExpired      bool          `json:"timeExpired" db:"time_expired" example:"false"`
	}
	StartedAttempt struct {
		StartedAt     *time.Time      `json:"startedAt" example:"2022-01-03T16:20:52.156534Z"`
		Deadline      *time.Time      `json:"deadline,omitempty" example:"2022-01-03T16:50:52.156534Z"`
		Answers       Answers         `json:"answers,omitempty"`
		AttemptID     string          `json:"attemptId" example:"8c8a4f4e-6c54-4b3e-a0a4-9b1f3c1a2f11"`
		AssessmentID  string          `json:"assessmentId" example:"go-basics"`
		Title         string          `json:"title" example:"Go basics"`
		Questions     []*QuestionView `json:"questions"`
		AttemptNumber uint32          `json:"attemptNumber" example:"1"`
	}
	Result struct {
		Score          uint8  `json:"score" example:"75"`
		Passed         bool   `json:"passed" example:"true"`
		PointsEarned   uint32 `json:"pointsEarned" example:"3"`
		PointsPossible uint32 `json:"pointsPossible" example:"4"`
		TimeExpired    bool   `json:"timeExpired" example:"false"`
	}
	AttemptView struct {
		StartedAt     *time.Time    `json:"startedAt" example:"2022-01-03T16:20:52.156534Z"`
		SubmittedAt   *time.Time    `json:"submittedAt,omitempty" example:"2022-01-03T16:40:52.156534Z"`
		Deadline      *time.Time    `json:"deadline,omitempty" example:"2022-01-03T16:50:52.156534Z"`
		Result        *Result       `json:"result,omitempty"`
		Answers       Answers       `json:"answers"`
		ID            string        `json:"id" example:"8c8a4f4e-6c54-4b3e-a0a4-9b1f3c1a2f11"`
		AssessmentID  string        `json:"assessmentId" example:"go-basics"`
		UserID        UserID        `json:"userId" example:"did:ethr:0x4B73C58370AEfcEf86A6021afCDe5673511376B2"`
		Status        AttemptStatus `json:"status" example:"submitted"`
		AttemptNumber uint32        `json:"attemptNumber" example:"1"`
	}
	// AttemptSnapshot is published every time an attempt gets finalized.
	AttemptSnapshot struct {
		*Attempt
		Forced bool `json:"forced,omitempty"`
	}
	// Grader scores an attempt while the store keeps it locked for finalization.
	Grader         func(attempt *Attempt) *Result
	AnswerMatching struct {
		TrimSpace  bool `yaml:"trimSpace" mapstructure:"trimSpace"`
		IgnoreCase bool `yaml:"ignoreCase" mapstructure:"ignoreCase"`
	}
	QuestionBank interface {
		GetAssessment(ctx context.Context, assessmentID string) (*Assessment, error)
		GetQuestions(ctx context.Context, assessmentID string) ([]*Question, error)
		PutAssessment(ctx context.Context, assessment *Assessment, questions []*Question) error
	}
	AttemptStore interface {
		CreateAttempt(ctx context.Context, userID UserID, snapshot *Snapshot, now stdlibtime.Time) (*Attempt, error)
		RecordAnswer(ctx context.Context, attemptID, questionID, value string, now stdlibtime.Time) error
		Finalize(ctx context.Context, attemptID string, grade Grader, now stdlibtime.Time) (attempt *Attempt, transitioned bool, err error)
		GetAttempt(ctx context.Context, attemptID string) (*Attempt, error)
		GetActiveAttempt(ctx context.Context, userID UserID, assessmentID string) (*Attempt, error)
		ListTimedAttempts(ctx context.Context, deadlineBefore stdlibtime.Time, limit uint64) ([]*Attempt, error)
	}
	ReadRepository interface {
		io.Closer
		GetAttempt(ctx context.Context, attemptID string) (*AttemptView, error)
		GetActiveAttempt(ctx context.Context, userID UserID, assessmentID string) (*StartedAttempt, error)
		CheckHealth(ctx context.Context) error
	}
	Repository interface {
		ReadRepository
		Start(ctx context.Context, userID UserID, assessmentID string) (*StartedAttempt, error)
		Answer(ctx context.Context, attemptID, questionID, value string) error
		Submit(ctx context.Context, attemptID string) (*Result, error)
		PutAssessment(ctx context.Context, assessment *Assessment, questions []*Question) error
	}
	Processor interface {
		Repository
	}
)

// Private API.

const (
	applicationYamlKey = "assessments"

	healthCheckTopicIndex      = 0
	attemptSnapshotsTopicIndex = 1

	defaultExpirySweepInterval  = 30 * stdlibtime.Second
	defaultExpiryGracePeriod    = 5 * stdlibtime.Second
	defaultExpirySweepBatchSize = 1000
	defaultForcedSubmitTimeout  = 30 * stdlibtime.Second
	defaultAlertFrequency       = 5 * stdlibtime.Minute

	storageRetryDelay = 100 * stdlibtime.Millisecond
)

var (
	//go:embed DDL.sql
	ddl string
)

type (
	repository struct {
		cfg      *config
		bank     QuestionBank
		store    AttemptStore
		timer    *expiryTimer
		mb       messagebroker.Client
		db       *storage.DB
		now      func() stdlibtime.Time
		shutdown func() error
		wg       *sync.WaitGroup
		cancel   context.CancelFunc
	}
	processor struct {
		*repository
	}
	attemptSnapshotSource struct {
		*processor
	}
	config struct {
		messagebroker.Config `mapstructure:",squash"` //nolint:tagliatelle // Nope.
		Alerts               struct {
			SlackWebhook string              `yaml:"slackWebhook" mapstructure:"slackWebhook"`
			Environment  string              `yaml:"environment" mapstructure:"environment"`
			Frequency    stdlibtime.Duration `yaml:"frequency" mapstructure:"frequency"`
			Enabled      bool                `yaml:"enabled" mapstructure:"enabled"`
		} `yaml:"alerts" mapstructure:"alerts"`
		AnswerMatching       AnswerMatching      `yaml:"answerMatching" mapstructure:"answerMatching"`
		ExpirySweepInterval  stdlibtime.Duration `yaml:"expirySweepInterval" mapstructure:"expirySweepInterval"`
		ExpiryGracePeriod    stdlibtime.Duration `yaml:"expiryGracePeriod" mapstructure:"expiryGracePeriod"`
		ForcedSubmitTimeout  stdlibtime.Duration `yaml:"forcedSubmitTimeout" mapstructure:"forcedSubmitTimeout"`
		ExpirySweepBatchSize uint64              `yaml:"expirySweepBatchSize" mapstructure:"expirySweepBatchSize"`
	}
)
