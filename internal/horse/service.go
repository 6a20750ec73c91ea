package horse

import (
	"errors"
	"fmt"
	"time"

	"github.com/stable-club/horse-care-backend/internal/platform/config"
	"github.com/stable-club/horse-care-backend/internal/platform/database"
	"github.com/stable-club/horse-care-backend/pkg/apperr"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// gameCfg 在Setup时注入，此后只读。
var gameCfg config.GameConfig

// nowFunc 是可替换的时钟，测试中用它模拟时间流逝。
var nowFunc = time.Now

// settleRetries 是结算时水位线CAS竞争的最大重试次数。
// 竞争失败意味着别的调用已经推进了水位线，重读后通常直接命中"未到期"。
const settleRetries = 3

// settleConcurrency 是列表结算时的最大并行度
const settleConcurrency = 4

// Settle 对一匹马执行惰性衰减结算。
//
// 结算把自水位线以来经过的完整衰减周期一次性补扣：
// 每项状态扣减 units*各自的衰减率（下限0），水位线前移 units*周期 ——
// 注意不是推进到"现在"，不足一个周期的余量保留到下次结算，避免衰减漂移。
//
// 并发安全：扣减通过单条带CAS条件（last_decrease未变）的UPDATE完成，
// 且扣减量在SQL里相对计算，不会覆盖并发照料动作的加成。
// 同一周期内重复调用是幂等的无操作。
func Settle(horseID uint) (DecayResult, error) {
	for attempt := 0; attempt < settleRetries; attempt++ {
		var h Horse
		err := database.DB.First(&h, horseID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DecayResult{}, apperr.ErrNotFound
		}
		if err != nil {
			return DecayResult{}, fmt.Errorf("查询马匹失败: %w", err)
		}

		// 水位线缺失时按"未到期"处理，这是一个防御性默认值，不视为错误
		if h.LastDecrease.IsZero() {
			return DecayResult{}, nil
		}

		now := nowFunc()
		elapsed := now.Sub(h.LastDecrease)
		if elapsed < gameCfg.DecreaseInterval {
			return DecayResult{}, nil
		}

		units := int(elapsed / gameCfg.DecreaseInterval)
		newWatermark := h.LastDecrease.Add(time.Duration(units) * gameCfg.DecreaseInterval)

		res := database.DB.Model(&Horse{}).
			Where("id = ? AND last_decrease = ?", h.ID, h.LastDecrease).
			Updates(map[string]interface{}{
				"feed_level":    clampedDecreaseExpr("feed_level", units*gameCfg.FeedDecrease),
				"water_level":   clampedDecreaseExpr("water_level", units*gameCfg.WaterDecrease),
				"flower_level":  clampedDecreaseExpr("flower_level", units*gameCfg.FlowerDecrease),
				"last_decrease": newWatermark,
				"last_updated":  now,
			})
		if res.Error != nil {
			return DecayResult{}, fmt.Errorf("结算衰减失败: %w", res.Error)
		}

		if res.RowsAffected == 1 {
			return DecayResult{
				Applied:        true,
				Units:          units,
				FeedDecrease:   decreaseAmount(h.FeedLevel, units*gameCfg.FeedDecrease),
				WaterDecrease:  decreaseAmount(h.WaterLevel, units*gameCfg.WaterDecrease),
				FlowerDecrease: decreaseAmount(h.FlowerLevel, units*gameCfg.FlowerDecrease),
			}, nil
		}
		// CAS未命中：另一个并发结算抢先推进了水位线，重读后重新计算
	}

	// 连续竞争失败说明衰减已被其他调用结算完毕
	return DecayResult{}, nil
}

// clampedDecreaseExpr 生成"扣减amount但不低于0"的SQL表达式。
// 相对更新保证与并发的照料加成互不覆盖；CASE WHEN写法对sqlite和postgres都成立。
func clampedDecreaseExpr(column string, amount int) interface{} {
	return gorm.Expr(
		fmt.Sprintf("CASE WHEN %s - ? < 0 THEN 0 ELSE %s - ? END", column, column),
		amount, amount,
	)
}

// decreaseAmount 计算从level出发、受0下限截断后的实际扣减量。
func decreaseAmount(level, amount int) int {
	if amount > level {
		return level
	}
	return amount
}

// ApplyCare 执行一次照料动作并返回该状态的新数值。
//
// 动作前必须先结算衰减，保证过期的马被拉到当前状态后再计入加成 ——
// 这是正确性要求：照料动作绝不能"掩盖"尚未结算的衰减。
// 加成通过单条封顶100的UPDATE完成，对同一匹马的并发照料不会丢失增量。
func ApplyCare(horseID uint, kind CareKind) (int, error) {
	column, ok := careColumns[kind]
	if !ok {
		return 0, fmt.Errorf("%w: 未知的照料动作 %q", apperr.ErrInvalidInput, kind)
	}

	if _, err := Settle(horseID); err != nil {
		return 0, err
	}

	increase := careIncrease(kind)
	res := database.DB.Model(&Horse{}).
		Where("id = ?", horseID).
		Updates(map[string]interface{}{
			column: gorm.Expr(
				fmt.Sprintf("CASE WHEN %s + ? > 100 THEN 100 ELSE %s + ? END", column, column),
				increase, increase,
			),
			"last_updated": nowFunc(),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("更新照料状态失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, apperr.ErrNotFound
	}

	var h Horse
	if err := database.DB.First(&h, horseID).Error; err != nil {
		return 0, fmt.Errorf("读取照料结果失败: %w", err)
	}
	switch kind {
	case CareWater:
		return h.WaterLevel, nil
	case CareFlower:
		return h.FlowerLevel, nil
	default:
		return h.FeedLevel, nil
	}
}

// careIncrease 返回一次照料动作的加成数值。
func careIncrease(kind CareKind) int {
	switch kind {
	case CareWater:
		return gameCfg.WaterIncrease
	case CareFlower:
		return gameCfg.FlowerIncrease
	default:
		return gameCfg.FeedIncrease
	}
}

// ListHorsesForUser 返回指定用户的所有马匹，按绑定顺序排列。
//
// 列表展示的是惰性结算的数据：这里先对每匹马执行一次Settle，
// 再统一重读，保证返回的状态是新鲜的。结算之间相互独立，并行执行。
func ListHorsesForUser(telegramID int64) ([]Horse, error) {
	ids, err := horseIDsForUser(telegramID)
	if err != nil {
		return nil, err
	}

	g := new(errgroup.Group)
	g.SetLimit(settleConcurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			_, err := Settle(id)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var horses []Horse
	err = database.DB.
		Joins("JOIN users ON users.id = horses.user_id").
		Where("users.telegram_id = ?", telegramID).
		Order("horses.id asc").
		Find(&horses).Error
	if err != nil {
		return nil, fmt.Errorf("查询马匹列表失败: %w", err)
	}
	return horses, nil
}

// horseIDsForUser 返回用户名下所有马匹的ID，按绑定顺序排列。
func horseIDsForUser(telegramID int64) ([]uint, error) {
	var ids []uint
	err := database.DB.Model(&Horse{}).
		Joins("JOIN users ON users.id = horses.user_id").
		Where("users.telegram_id = ?", telegramID).
		Order("horses.id asc").
		Pluck("horses.id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("查询马匹ID列表失败: %w", err)
	}
	return ids, nil
}

// GetHorseForUser 返回用户名下的一匹马及其本次访问触发的结算结果。
// 马不存在返回NotFound；存在但不属于该用户返回Forbidden。
func GetHorseForUser(horseID uint, telegramID int64) (*Horse, DecayResult, error) {
	var h Horse
	err := database.DB.First(&h, horseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, DecayResult{}, apperr.ErrNotFound
	}
	if err != nil {
		return nil, DecayResult{}, fmt.Errorf("查询马匹失败: %w", err)
	}

	var ownerCount int64
	err = database.DB.Table("users").
		Where("id = ? AND telegram_id = ?", h.UserID, telegramID).
		Count(&ownerCount).Error
	if err != nil {
		return nil, DecayResult{}, fmt.Errorf("校验马主失败: %w", err)
	}
	if ownerCount == 0 {
		return nil, DecayResult{}, apperr.ErrForbidden
	}

	result, err := Settle(horseID)
	if err != nil {
		return nil, DecayResult{}, err
	}

	if err := database.DB.First(&h, horseID).Error; err != nil {
		return nil, DecayResult{}, fmt.Errorf("读取结算后的马匹失败: %w", err)
	}
	return &h, result, nil
}

// TotalCount 返回系统中马匹的总数，用于管理面板。
func TotalCount() (int64, error) {
	var count int64
	if err := database.DB.Model(&Horse{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("统计马匹总数失败: %w", err)
	}
	return count, nil
}
