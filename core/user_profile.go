package core

// UserProfile 是用户画像的核心抽象：一个只追加的交互事件序列。
//
// 它不是某一个 Node，而是：
//   - 被 Ranker 用来判断用户处于冷启动还是热启动
//   - 驱动协同过滤（用户向量）和内容打分（偏好向量）
//   - 只能通过 profile.Store 追加事件，不会被删除
//
// 偏好向量不在快照中保存，由 profile 包按需派生并缓存。
type UserProfile struct {
	UserID string
	Events []Event
}

// NewUserProfile 创建一个空的用户画像。
func NewUserProfile(userID string) *UserProfile {
	return &UserProfile{UserID: userID}
}

// Interacted 返回用户交互过的游戏 ID 集合，可按信号类型过滤。
func (p *UserProfile) Interacted(signals ...Signal) map[int64]struct{} {
	out := make(map[int64]struct{})
	if p == nil {
		return out
	}
	for _, ev := range p.Events {
		if len(signals) == 0 {
			out[ev.GameID] = struct{}{}
			continue
		}
		for _, s := range signals {
			if ev.Signal == s {
				out[ev.GameID] = struct{}{}
				break
			}
		}
	}
	return out
}

// Len 返回事件数。
func (p *UserProfile) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Events)
}
