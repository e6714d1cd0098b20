package strategy

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jfk9w-go/flu/me3x"
	"github.com/jfk9w-go/telegram-bot-api"
	"gopkg.in/guregu/null.v3"
)

type ID int64

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func (id ID) ChatID() telegram.ID {
	return telegram.ID(id)
}

type State string

const (
	Active    State = "active"
	Exhausted State = "exhausted"
	Cancelled State = "cancelled"
)

type Subscriber struct {
	ID        ID          `gorm:"primaryKey;autoIncrement:false"`
	NextIndex int         `gorm:"not null"`
	State     State       `gorm:"not null;index"`
	RunID     uuid.UUID   `gorm:"type:varchar(36);not null"`
	LastError null.String `gorm:"column:last_error"`
	UpdatedAt *time.Time
}

func (s *Subscriber) TableName() string {
	return "subscriber"
}

func (s *Subscriber) Labels() me3x.Labels {
	return make(me3x.Labels, 0, 2).
		Add("subscriber_id", s.ID).
		Add("state", s.State)
}

func (s *Subscriber) String() string {
	return fmt.Sprintf("%s[%s:%d]", s.ID, s.State, s.NextIndex)
}

// Guard selects the record revision an update applies to.
type Guard struct {
	State State
	RunID uuid.UUID
}

type Task func(context.Context) error

type Quote struct {
	Success      bool
	Price        null.Float
	ErrorMessage null.String
}

func QuoteOf(price float64) Quote {
	return Quote{Success: true, Price: null.FloatFrom(price)}
}

func FailedQuote(message string) Quote {
	return Quote{ErrorMessage: null.StringFrom(message)}
}

type Series struct {
	Labels []string
	Values []float64
}

func (s Series) Len() int {
	return len(s.Values)
}

type Options struct {
	ParseMode   telegram.ParseMode
	ReplyMarkup telegram.ReplyMarkup
	Silent      bool
}

var Markdown = &Options{ParseMode: telegram.Markdown}
