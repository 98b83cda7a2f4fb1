package cmd

import (
	"Tunebox/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:         "server",
	Short:       "启动 Media Store 服务器",
	Long:        `启动 Tunebox 的 HTTP 服务器，提供歌曲上传、歌单管理和音频文件访问接口`,
	Annotations: map[string]string{logOutputAnnotation: "stdout"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start(cfg)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
