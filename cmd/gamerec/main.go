/*
Package main 是 gamerec 命令行入口。

用法：

	gamerec [command]

命令：

	recommend         为用户或文本查询生成推荐
	record            记录一条用户交互事件
	catalog validate  校验目录文件
	catalog watch     监听目录文件并热重载

示例：

	gamerec recommend --user u1 --query "co-op puzzle" -k 5
	gamerec record --user u1 --title "Portal 2" --signal liked
	gamerec catalog validate games.jsonl
*/
package main

import (
	"fmt"
	"os"

	"github.com/rushteam/gamerec/internal/cli"
)

// 版本信息（构建时通过 ldflags 注入）
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	root := cli.NewRootCmd(fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date))
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
