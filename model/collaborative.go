package model

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/rushteam/gamerec/catalog"
	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/vector"
)

// FeatureAffinity 是校准器的输入特征：用户向量与游戏嵌入的余弦相似度。
const FeatureAffinity = "affinity"

// DefaultMinEvents 是启用协同过滤所需的最少事件数。
const DefaultMinEvents = 3

// Collaborative 是基于嵌入的协同过滤模型。
//
// 用户向量 = 用户事件涉及游戏嵌入的信号加权平均（见 core.WeightedCentroid），
// 游戏分数 = Calibrator(affinity)，affinity 为用户向量与游戏嵌入的余弦相似度。
// 模型只读，可被并发调用。
type Collaborative struct {
	Embeddings map[int64][]float64
	Calibrator RankModel
	MinEvents  int
	Weights    core.SignalWeights
	HalfLife   time.Duration

	dim int
}

// NewCollaborative 创建模型，校验所有嵌入维度一致。
func NewCollaborative(embeddings map[int64][]float64, calibrator RankModel) (*Collaborative, error) {
	m := &Collaborative{
		Embeddings: embeddings,
		Calibrator: calibrator,
		MinEvents:  DefaultMinEvents,
		Weights:    core.DefaultSignalWeights,
	}
	for id, e := range embeddings {
		if len(e) == 0 {
			return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeDataIntegrity, fmt.Sprintf("game %d: empty embedding", id))
		}
		if m.dim == 0 {
			m.dim = len(e)
		} else if len(e) != m.dim {
			return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeDataIntegrity,
				fmt.Sprintf("game %d: embedding dimension %d, want %d", id, len(e), m.dim))
		}
	}
	if m.Calibrator == nil {
		m.Calibrator = DefaultCalibrator()
	}
	return m, nil
}

// FromCatalog 在没有离线模型时，用目录内容向量作为游戏嵌入。
func FromCatalog(cat *catalog.Catalog) *Collaborative {
	emb := make(map[int64][]float64, cat.Len())
	for g := range cat.All() {
		emb[g.ID] = g.Vector
	}
	m, _ := NewCollaborative(emb, nil) // 目录已保证维度一致
	return m
}

// collaborativeFile 是模型文件格式：
//
//	{"calibrator": {"bias": 0, "weights": {"affinity": 4}}, "embeddings": {"10": [0.1, ...]}}
type collaborativeFile struct {
	Calibrator *LRModel             `json:"calibrator"`
	Embeddings map[string][]float64 `json:"embeddings"`
	MinEvents  int                  `json:"min_events"`
}

// LoadCollaborative 从 JSON 文件加载离线训练的嵌入。
func LoadCollaborative(path string) (*Collaborative, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleModel, core.ErrorCodeNotFound, "read collaborative model", err)
	}
	var raw collaborativeFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, core.WrapDomainError(core.ModuleModel, core.ErrorCodeDataIntegrity, "decode collaborative model", err)
	}
	emb := make(map[int64][]float64, len(raw.Embeddings))
	for k, v := range raw.Embeddings {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, core.WrapDomainError(core.ModuleModel, core.ErrorCodeDataIntegrity, "embedding key "+strconv.Quote(k), err)
		}
		emb[id] = v
	}
	var calibrator RankModel
	if raw.Calibrator != nil {
		calibrator = raw.Calibrator
	}
	m, err := NewCollaborative(emb, calibrator)
	if err != nil {
		return nil, err
	}
	if raw.MinEvents > 0 {
		m.MinEvents = raw.MinEvents
	}
	return m, nil
}

func (m *Collaborative) Name() string { return "collaborative" }

// Embedding 返回游戏嵌入，不存在时返回 nil。
func (m *Collaborative) Embedding(id int64) []float64 { return m.Embeddings[id] }

// Sufficient 判断画像是否满足协同过滤的最少事件数。
func (m *Collaborative) Sufficient(p *core.UserProfile) bool {
	return p.Len() >= m.minEvents()
}

func (m *Collaborative) minEvents() int {
	if m.MinEvents <= 0 {
		return DefaultMinEvents
	}
	return m.MinEvents
}

// UserVector 计算用户向量。事件不足或没有任何事件命中嵌入时返回 ErrInsufficientHistory。
func (m *Collaborative) UserVector(p *core.UserProfile) ([]float64, error) {
	if !m.Sufficient(p) {
		return nil, fmt.Errorf("%d events, need %d: %w", p.Len(), m.minEvents(), core.ErrInsufficientHistory)
	}
	vec, used := core.WeightedCentroid(p.Events, m.Weights, m.HalfLife, m.Embedding)
	if vec == nil {
		return nil, fmt.Errorf("%d of %d events have embeddings: %w", used, p.Len(), core.ErrInsufficientHistory)
	}
	return vec, nil
}

// Score 为候选游戏打分，返回 (0,1) 之间的分数。没有嵌入的游戏不出现在结果中。
func (m *Collaborative) Score(ctx context.Context, p *core.UserProfile, candidates []int64) (map[int64]float64, error) {
	user, err := m.UserVector(p)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]float64, len(candidates))
	features := make(map[string]float64, 1)
	for i, id := range candidates {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		emb := m.Embeddings[id]
		if emb == nil || len(emb) != len(user) {
			continue
		}
		features[FeatureAffinity] = vector.Cosine(user, emb)
		score, err := m.Calibrator.Predict(features)
		if err != nil {
			return nil, core.WrapDomainError(core.ModuleModel, core.ErrorCodeInternalError, "calibrate affinity", err)
		}
		out[id] = score
	}
	return out, nil
}
