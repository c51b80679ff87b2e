package model

// DataMode выбирает источник фреймов: живой стрим или генератор.
type DataMode string

const (
	LiveMode DataMode = "live"
	TestMode DataMode = "test"
)
