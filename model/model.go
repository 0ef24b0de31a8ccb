// Package model 是离线训练模型在线推理的封装：LR 校准器与协同过滤嵌入模型。
// 训练过程不在本模块内，模型以 JSON 文件形式加载。
package model

// RankModel 是打分的最小抽象：输入特征，输出一个可比较的分数。
// 协同过滤用它把用户与游戏的亲和度校准为 (0,1) 之间的分数。
type RankModel interface {
	Name() string
	Predict(features map[string]float64) (float64, error)
}
