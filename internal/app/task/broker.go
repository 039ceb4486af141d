/*
 * @Description: 后台定时任务调度
 * @Author: 李志伟
 * @Date: 2026-01-12 17:36:29
 * @LastEditTime: 2026-06-03 10:12:45
 * @LastEditors: 李志伟
 */
package task

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/lizhiwei-dev/echoes-app/pkg/service/statistics"
)

// 浏览量增量落库的调度表达式
const viewCountFlushSpec = "*/5 * * * *"

// Broker 管理应用的后台定时任务。
type Broker struct {
	cron         *cron.Cron
	viewCountSvc statistics.ViewCountService
}

func NewBroker(viewCountSvc statistics.ViewCountService) *Broker {
	return &Broker{
		cron:         cron.New(),
		viewCountSvc: viewCountSvc,
	}
}

// RegisterCronJobs 注册所有定时任务，必须在 Start 之前调用。
func (b *Broker) RegisterCronJobs() error {
	if _, err := b.cron.AddFunc(viewCountFlushSpec, b.flushViewCounts); err != nil {
		return err
	}

	log.Println("[信息] 定时任务注册完成")
	return nil
}

// Start 启动调度器，任务在各自的 goroutine 中执行。
func (b *Broker) Start() {
	b.cron.Start()
	log.Println("[信息] 定时任务调度器已启动")
}

// Stop 停止调度器并等待正在执行的任务结束。
func (b *Broker) Stop() {
	ctx := b.cron.Stop()
	<-ctx.Done()
	log.Println("[信息] 定时任务调度器已停止")
}

func (b *Broker) flushViewCounts() {
	if err := b.viewCountSvc.Flush(context.Background()); err != nil {
		log.Printf("[错误] 浏览量落库任务失败: %v", err)
	}
}
