package model

import (
	"math"
	"os"

	"github.com/goccy/go-json"

	"github.com/rushteam/gamerec/core"
)

// LRModel 实现了逻辑回归 (Logistic Regression) 模型。
//
// 预测原理：
// 1. 线性加权求和: z = Bias + sum(Weight_i * Feature_i)
// 2. Sigmoid 变换: P = 1 / (1 + exp(-z))
//
// 最终输出值 P 范围在 (0, 1) 之间。
type LRModel struct {
	Bias    float64            `json:"bias"`    // 偏置项 (Bias / Intercept)
	Weights map[string]float64 `json:"weights"` // 特征权重 (Weights / Coefficients)
}

// DefaultCalibrator 是没有模型文件时使用的亲和度校准器：sigmoid(4·affinity)。
func DefaultCalibrator() *LRModel {
	return &LRModel{Weights: map[string]float64{FeatureAffinity: 4}}
}

func LoadLRModel(path string) (*LRModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleModel, core.ErrorCodeNotFound, "read lr model", err)
	}
	var m LRModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, core.WrapDomainError(core.ModuleModel, core.ErrorCodeDataIntegrity, "decode lr model", err)
	}
	return &m, nil
}

func (m *LRModel) Name() string { return "lr" }

func (m *LRModel) Predict(features map[string]float64) (float64, error) {
	score := m.Bias
	for k, v := range features {
		if w, ok := m.Weights[k]; ok {
			score += w * v
		}
	}
	return 1 / (1 + math.Exp(-score)), nil
}

var _ RankModel = (*LRModel)(nil)
