package types

// 信息流类型
const (
	FeedHot       = "hot"
	FeedNew       = "new"
	FeedTop       = "top"
	FeedTrending  = "trending"
	FeedRising    = "rising"
	FeedForYou    = "for_you"
	FeedDiscovery = "discovery"
)

func ValidFeedKind(kind string) bool {
	switch kind {
	case FeedHot, FeedNew, FeedTop, FeedTrending, FeedRising, FeedForYou, FeedDiscovery:
		return true
	}
	return false
}

// FeedParams 信息流参数, 零值取配置默认
type FeedParams struct {
	Kind        string  `form:"-"`
	Limit       int     `form:"limit"`
	WindowHours float64 `form:"window_hours"`
	MaxAgeHours float64 `form:"max_age_hours"`
	ViewerID    uint64  `form:"-"` // for_you 必填, 来自登录身份
}
