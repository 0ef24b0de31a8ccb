package catalog

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/rushteam/gamerec/core"
)

// DefaultSnapshotKey 是目录快照在外部存储中的默认 key。
const DefaultSnapshotKey = "gamerec:catalog:snapshot"

// Persist 把目录快照写入外部存储（JSON 记录数组）。
func Persist(ctx context.Context, st core.Store, key string, c *Catalog) error {
	data, err := json.Marshal(c.Records())
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	if err := st.Set(ctx, key, data); err != nil {
		return fmt.Errorf("persist catalog to %s: %w", st.Name(), err)
	}
	return nil
}

// Restore 从外部存储读取快照并重新构建目录；key 不存在时返回 NOT_FOUND。
func Restore(ctx context.Context, st core.Store, key string) (*Catalog, error) {
	data, err := st.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var records []core.GameRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeDataIntegrity, "decode snapshot", err)
	}
	return Build(records)
}
