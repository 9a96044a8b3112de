package logic

// EntryFailure 批量操作中单个条目的失败明细
type EntryFailure struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// GenerateResult 账期生成结果,按条目区分成功与失败
type GenerateResult struct {
	Succeeded []PeriodKey    `json:"succeeded"`
	Skipped   int            `json:"skipped"` // 已存在或并发竞争落败
	Failed    []EntryFailure `json:"failed"`
}

// CreatedCount 本次新建的账期数
func (r *GenerateResult) CreatedCount() int {
	return len(r.Succeeded)
}

// SyncResult 付款记录补齐结果
type SyncResult struct {
	Succeeded []int64        `json:"succeeded"` // 新建付款记录id
	Skipped   int            `json:"skipped"`
	Failed    []EntryFailure `json:"failed"`
}

// CreatedCount 本次新建的付款记录数
func (r *SyncResult) CreatedCount() int {
	return len(r.Succeeded)
}

// CancelResult 取消级联结果
type CancelResult struct {
	Cancelled []int64        `json:"cancelled"` // 被取消的付款记录id
	Failed    []EntryFailure `json:"failed"`
}

// CancelledCount 本次取消的付款记录数
func (r *CancelResult) CancelledCount() int {
	return len(r.Cancelled)
}
