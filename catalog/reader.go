package catalog

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/rushteam/gamerec/core"
)

// 记录文件格式
const (
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatYAML  = "yaml"
)

// recordFile 是 JSON/YAML 文件的顶层结构，也接受直接的记录数组。
type recordFile struct {
	Games []core.GameRecord `json:"games" yaml:"games"`
}

// FormatOf 根据扩展名判断记录文件格式。
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", core.NewDomainError(core.ModuleCatalog, core.ErrorCodeNotSupported, "unsupported catalog file extension: "+path)
}

// ReadFile 读取目录记录文件（.json / .jsonl / .yaml）。
func ReadFile(path string) ([]core.GameRecord, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Decode(f, format)
}

// Decode 按格式解码记录流。
func Decode(r io.Reader, format string) ([]core.GameRecord, error) {
	switch format {
	case FormatJSONL:
		return decodeJSONL(r)
	case FormatJSON, FormatYAML:
	default:
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeNotSupported, "unsupported catalog format: "+format)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if format == FormatJSON {
		if data[0] == '[' {
			var records []core.GameRecord
			if err := json.Unmarshal(data, &records); err != nil {
				return nil, fmt.Errorf("parse json: %w", err)
			}
			return records, nil
		}
		var file recordFile
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		return file.Games, nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		var records []core.GameRecord
		if err := node.Decode(&records); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		return records, nil
	}
	var file recordFile
	if err := node.Decode(&file); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return file.Games, nil
}

func decodeJSONL(r io.Reader) ([]core.GameRecord, error) {
	var records []core.GameRecord
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		var rec core.GameRecord
		if err := json.Unmarshal(b, &rec); err != nil {
			return nil, fmt.Errorf("parse jsonl line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return records, nil
}

// LoadFile 读取并构建目录。
func LoadFile(path string) (*Catalog, error) {
	records, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Build(records)
}
