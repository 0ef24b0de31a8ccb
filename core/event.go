package core

import "time"

// Signal 是用户行为信号类型。
type Signal string

const (
	SignalViewed    Signal = "viewed"
	SignalLiked     Signal = "liked"
	SignalRated     Signal = "rated"
	SignalPurchased Signal = "purchased"
	SignalDisliked  Signal = "disliked"
)

// Valid 判断信号类型是否合法。
func (s Signal) Valid() bool {
	switch s {
	case SignalViewed, SignalLiked, SignalRated, SignalPurchased, SignalDisliked:
		return true
	}
	return false
}

// 评分取值范围（rated 信号必须携带）
const (
	MinRating = 1.0
	MaxRating = 5.0
)

// Event 是一条用户交互事件，只追加不修改。
type Event struct {
	ID        string    `json:"id"`
	GameID    int64     `json:"game_id"`
	Signal    Signal    `json:"signal"`
	Rating    *float64  `json:"rating,omitempty"`
	Timestamp time.Time `json:"ts"`
}

// Ack 是 RecordEvent 的确认信息。
type Ack struct {
	UserID  string
	EventID string
	Seq     int // 该事件在用户序列中的位置（从 1 开始）
}
