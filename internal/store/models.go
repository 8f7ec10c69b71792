package store

import "time"

// Difficulty levels.
const (
	DifficultyEasy   = 1
	DifficultyMedium = 2
	DifficultyHard   = 3
)

// Game lifecycle states.
const (
	StatusWaiting   = 1
	StatusActive    = 2
	StatusCompleted = 3
)

// User roles.
const (
	RolePlayer = "player"
	RoleAdmin  = "admin"
)

// Game history results.
const (
	ResultWin  = "win"
	ResultLose = "lose"
	ResultDraw = "draw"
)

type User struct {
	ID           int64
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         string
	Level        int
	XP           int
	Coin         int
	CreatedAt    time.Time
}

// XPForLevel returns the cumulative XP required to reach level. Each level
// costs 100 XP plus 50 per level already gained.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	total := 0
	for lvl := 1; lvl < level; lvl++ {
		total += 100 + (lvl-1)*50
	}
	return total
}

// AddXP grants amount XP and raises the level while thresholds are met.
// Returns whether a level-up happened and how many levels were gained.
// The caller persists the user afterwards.
func (u *User) AddXP(amount int) (bool, int) {
	if amount <= 0 {
		return false, 0
	}
	oldLevel := u.Level
	u.XP += amount

	newLevel := oldLevel
	for u.XP >= XPForLevel(newLevel+1) {
		newLevel++
	}
	gained := newLevel - oldLevel
	if gained > 0 {
		u.Level = newLevel
	}
	return gained > 0, gained
}

func (u *User) AddCoins(amount int) bool {
	if amount <= 0 {
		return false
	}
	u.Coin += amount
	return true
}

func (u *User) DeductCoins(amount int) bool {
	if amount <= 0 || amount > u.Coin {
		return false
	}
	u.Coin -= amount
	return true
}

// XPProgress is the percentage of the way from the current level to the next.
func (u *User) XPProgress() float64 {
	cur := XPForLevel(u.Level)
	next := XPForLevel(u.Level + 1)
	needed := next - cur
	if needed <= 0 {
		return 100
	}
	pct := float64(u.XP-cur) / float64(needed) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

type Word struct {
	ID         int64
	Word       string
	Difficulty int
}

type Game struct {
	ID            int64
	CreatorID     int64
	Difficulty    int
	Word          string
	MaskedWord    string
	StartTime     *time.Time
	EndTime       *time.Time
	Status        int
	CurrentTurnID *int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Player struct {
	ID       int64
	UserID   int64
	GameID   int64
	Score    int
	JoinedAt time.Time
	// Username is joined in for API views.
	Username string
}

type GuessRecord struct {
	ID        int64
	PlayerID  int64
	GameID    int64
	Letter    string
	IsCorrect bool
	Points    int
	CreatedAt time.Time
	Username  string
}

type GameRecord struct {
	ID          int64     `json:"id"`
	GameID      int64     `json:"game"`
	PlayerID    int64     `json:"player"`
	Score       int       `json:"score"`
	Result      string    `json:"result"`
	GuessedWord string    `json:"guessed_word"`
	CreatedAt   time.Time `json:"created_at"`
}

type LeaderboardEntry struct {
	Username   string `json:"username"`
	TotalScore int    `json:"total_score"`
}
