package horse

import (
	"time"
)

// Horse 定义了马匹在数据库中的持久化模型。
type Horse struct {
	ID uint `gorm:"primarykey" json:"id"`

	// UserID 是马主的数据库内部ID
	UserID uint `gorm:"index;not null" json:"-"`

	// Name 是马匹的名字
	Name string `json:"name"`

	// Number 是马匹的唯一编号（马牌号）
	Number string `gorm:"uniqueIndex;not null" json:"number"`

	// Photo 是马匹照片的引用
	Photo string `json:"photo"`

	// 三项照料状态，始终保持在 [0,100] 区间内的整数
	FeedLevel   int `json:"feed_level"`
	WaterLevel  int `json:"water_level"`
	FlowerLevel int `json:"flower_level"`

	// LastUpdated 是最近一次状态变动的时间
	LastUpdated time.Time `json:"last_updated"`

	// LastDecrease 是衰减水位线：截至该时刻的衰减都已经结算。
	// 它只会以整数个衰减周期为步长向前推进，绝不回退。
	LastDecrease time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// CareKind 是照料动作的封闭枚举。
// 状态列名只由内部映射决定，绝不接受调用方传入的列名。
type CareKind string

const (
	CareFeed   CareKind = "feed"
	CareWater  CareKind = "water"
	CareFlower CareKind = "flower"
)

// careColumns 把照料动作映射到对应的数据库列
var careColumns = map[CareKind]string{
	CareFeed:   "feed_level",
	CareWater:  "water_level",
	CareFlower: "flower_level",
}

// DecayResult 描述了一次结算的结果。
// Applied为false表示距上次结算不足一个周期，没有任何修改发生。
type DecayResult struct {
	Applied bool `json:"applied"`

	// Units 是本次结算补扣的完整周期数
	Units int `json:"units"`

	// 各项状态实际被扣减的数值（受0下限截断）
	FeedDecrease   int `json:"feed_decrease"`
	WaterDecrease  int `json:"water_decrease"`
	FlowerDecrease int `json:"flower_decrease"`
}

// NewAttachedHorse 构造一匹刚通过审核绑定的马。
// 初始状态为饱食100、饮水100、鲜花0，衰减水位线从当前时刻起算。
func NewAttachedHorse(userID uint, name, number, photo string, now time.Time) Horse {
	return Horse{
		UserID:       userID,
		Name:         name,
		Number:       number,
		Photo:        photo,
		FeedLevel:    100,
		WaterLevel:   100,
		FlowerLevel:  0,
		LastUpdated:  now,
		LastDecrease: now,
	}
}
