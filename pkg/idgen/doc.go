// Package idgen 提供递增 ID 生成器
//
// 使用 Sonyflake 算法生成全局唯一且时间有序的 64 位 ID，
// 用于生命周期事件等不落库的标识。term_id 等存储主键仍由数据库自增生成。
//
//	eventID, err := idgen.GenerateEventID()
//	// eventID: "evt-1234567890"
package idgen
