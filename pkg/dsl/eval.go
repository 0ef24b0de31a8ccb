// Package dsl 是请求级过滤表达式的解释器，使用 CEL (Common Expression Language) 实现。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/gamerec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("game", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译好的布尔表达式，可被并发求值。
//
// 表达式语法（CEL 标准语法），变量 game 的字段：
// id, title, genres, tags, price, platforms, release_year,
// positive_ratio, user_reviews, avg_playtime, popularity, dlc
//
// 示例：
//   - `game.price < 20.0 && "co-op" in game.tags`
//   - `game.release_year >= 2015 || game.positive_ratio > 90.0`
//   - `game.title.contains("Souls")`
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 解析并检查表达式。表达式为空时返回 nil, nil。
func Compile(expr string) (*Program, error) {
	if expr == "" {
		return nil, nil
	}
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("expression must return boolean, got %s", out)
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

func (p *Program) String() string { return p.expr }

// Match 对游戏求值。求值错误（例如类型不匹配）视为不满足。
func (p *Program) Match(g *core.Game) (bool, error) {
	out, _, err := p.prg.Eval(map[string]any{"game": gameInput(g)})
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// gameInput 构建 CEL 表达式的输入数据
func gameInput(g *core.Game) map[string]any {
	return map[string]any{
		"id":             g.ID,
		"title":          g.Title,
		"genres":         g.Genres,
		"tags":           g.Tags,
		"price":          g.Price,
		"platforms":      g.Platforms,
		"release_year":   int64(g.ReleaseYear),
		"positive_ratio": g.PositiveRatio,
		"user_reviews":   int64(g.UserReviews),
		"avg_playtime":   int64(g.AvgPlaytime),
		"popularity":     g.Popularity,
		"dlc":            g.DLC,
	}
}
