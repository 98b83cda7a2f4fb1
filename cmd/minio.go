package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"Tunebox/storage"

	"github.com/spf13/cobra"
)

var (
	minioPrefix string
	minioStats  bool
)

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "MinIO存储桶查看",
	Long:  `查看存放音频文件的MinIO存储桶，支持按前缀列出文件和查看统计信息。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("MinIO配置: %s, Bucket: %s\n", cfg.MinioEndpoint, cfg.MinioBucket)

		ctx := context.Background()
		store, err := storage.NewMinioStore(ctx, cfg)
		if err != nil {
			return fmt.Errorf("无法连接到MinIO: %w", err)
		}

		objects, stats, err := store.ListObjects(ctx, minioPrefix)
		if err != nil {
			return err
		}

		if minioStats {
			fmt.Printf("\n存储桶: %s\n", store.Bucket())
			fmt.Printf("文件数量: %d\n", stats.TotalObjects)
			fmt.Printf("总大小: %s\n", storage.FormatSize(stats.TotalSize))
			if !stats.LastModified.IsZero() {
				fmt.Printf("最后修改: %s\n", stats.LastModified.Format("2006-01-02 15:04:05"))
			}
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tSIZE\tMODIFIED")
		for _, obj := range objects {
			fmt.Fprintf(w, "%s\t%s\t%s\n", obj.Key, storage.FormatSize(obj.Size), obj.LastModified.Format("2006-01-02 15:04"))
		}
		fmt.Fprintf(w, "\n共 %d 个文件, %s\n", stats.TotalObjects, storage.FormatSize(stats.TotalSize))
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(minioCmd)

	minioCmd.Flags().StringVarP(&minioPrefix, "prefix", "p", "", "按前缀过滤文件")
	minioCmd.Flags().BoolVarP(&minioStats, "stats", "s", false, "显示存储桶统计信息")

	minioCmd.Example = `  # 列出所有文件
  tunebox minio

  # 按前缀过滤文件
  tunebox minio -p "3f2a"

  # 显示存储桶统计信息
  tunebox minio -s`
}
