package game

import (
	"container/heap"
	"time"
)

// TaskQueue 按触发时间排序的延迟任务队列
//
// 任务不依赖运行时定时器：每帧由 FrameLoop 调用 Drain(now) 执行所有到期任务，
// 因此可以用 MockClock 确定性地测试，场景销毁时 Clear() 即可丢弃全部悬挂任务。
// 同一触发时间的任务按加入顺序执行。非并发安全，只在帧循环中使用。
type TaskQueue struct {
	items taskHeap
	seq   uint64
}

// NewTaskQueue 创建空任务队列
func NewTaskQueue() *TaskQueue {
	return &TaskQueue{}
}

// Schedule 安排任务在 at 时刻（或之后第一次 Drain 时）执行
func (q *TaskQueue) Schedule(at time.Time, fn func()) {
	q.seq++
	heap.Push(&q.items, &scheduledTask{at: at, seq: q.seq, fn: fn})
}

// Drain 执行所有 at <= now 的任务，返回执行数量
// 任务执行中新安排的到期任务会在同一次 Drain 中执行
func (q *TaskQueue) Drain(now time.Time) int {
	ran := 0
	for q.items.Len() > 0 {
		next := q.items[0]
		if next.at.After(now) {
			break
		}
		heap.Pop(&q.items)
		next.fn()
		ran++
	}
	return ran
}

// Len 返回待执行任务数量
func (q *TaskQueue) Len() int {
	return q.items.Len()
}

// Clear 丢弃全部待执行任务
func (q *TaskQueue) Clear() {
	q.items = q.items[:0]
}

type scheduledTask struct {
	at  time.Time
	seq uint64
	fn  func()
}

type taskHeap []*scheduledTask

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) { *h = append(*h, x.(*scheduledTask)) }

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
