package models

import (
	"fmt"
	"time"
)

// GoalStatus is stored as a small integer and exchanged with clients by name.
type GoalStatus int

const (
	GoalStatusToDo GoalStatus = iota + 1
	GoalStatusInProgress
	GoalStatusDone
	GoalStatusArchived
)

var goalStatusNames = map[GoalStatus]string{
	GoalStatusToDo:       "to_do",
	GoalStatusInProgress: "in_progress",
	GoalStatusDone:       "done",
	GoalStatusArchived:   "archived",
}

func (s GoalStatus) String() string {
	if name, ok := goalStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("GoalStatus(%d)", int(s))
}

func (s GoalStatus) Valid() bool {
	_, ok := goalStatusNames[s]
	return ok
}

func (s GoalStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid goal status %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *GoalStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseGoalStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseGoalStatus converts a status name such as "in_progress" to a GoalStatus.
func ParseGoalStatus(name string) (GoalStatus, error) {
	for status, n := range goalStatusNames {
		if n == name {
			return status, nil
		}
	}
	return 0, fmt.Errorf("unknown goal status %q", name)
}

// GoalPriority is ordered: a higher value is more urgent.
type GoalPriority int

const (
	GoalPriorityLow GoalPriority = iota + 1
	GoalPriorityMedium
	GoalPriorityHigh
	GoalPriorityCritical
)

var goalPriorityNames = map[GoalPriority]string{
	GoalPriorityLow:      "low",
	GoalPriorityMedium:   "medium",
	GoalPriorityHigh:     "high",
	GoalPriorityCritical: "critical",
}

func (p GoalPriority) String() string {
	if name, ok := goalPriorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("GoalPriority(%d)", int(p))
}

func (p GoalPriority) Valid() bool {
	_, ok := goalPriorityNames[p]
	return ok
}

func (p GoalPriority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid goal priority %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *GoalPriority) UnmarshalText(text []byte) error {
	parsed, err := ParseGoalPriority(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParseGoalPriority converts a priority name such as "high" to a GoalPriority.
func ParseGoalPriority(name string) (GoalPriority, error) {
	for priority, n := range goalPriorityNames {
		if n == name {
			return priority, nil
		}
	}
	return 0, fmt.Errorf("unknown goal priority %q", name)
}

type Goal struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	UserID      uint64       `gorm:"not null;index" json:"user_id"`
	CategoryID  uint64       `gorm:"not null;index" json:"category_id"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	DueDate     *time.Time   `json:"due_date"`
	Status      GoalStatus   `gorm:"type:smallint;not null;default:1;index" json:"status"`
	Priority    GoalPriority `gorm:"type:smallint;not null;default:2" json:"priority"`
	CreatedAt   time.Time    `json:"created"`
	UpdatedAt   time.Time    `json:"updated"`

	// Relations
	User     User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Category GoalCategory  `gorm:"foreignKey:CategoryID" json:"-"`
	Comments []GoalComment `gorm:"foreignKey:GoalID" json:"-"`
}

// ResolveBoardID walks Goal -> Category -> Board. Category must be loaded.
func (g Goal) ResolveBoardID() uint64 { return g.Category.BoardID }

func (Goal) MutatingRoles() []BoardRole { return WriteRoles }

func (Goal) ResourceName() string { return "goal" }

// IsArchived reports whether the goal has been deleted.
func (g Goal) IsArchived() bool { return g.Status == GoalStatusArchived }
