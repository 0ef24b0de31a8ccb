// Package store 提供 core.Store 的实现：外部持久化协作方的 get/put-by-id 契约。
//
// 注意：此包只包含实现，接口定义在 core 包。
//
//	var st core.Store = store.NewMemoryStore()
//	st, err := store.OpenBadgerStore("/var/lib/gamerec")
//	st = store.NewBreakerStore(redisStore, store.BreakerConfig{FailureThreshold: 5})
package store
