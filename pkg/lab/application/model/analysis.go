package model

import "time"

type AnalysisID = string

type PatientID = string

type Priority string

const (
	PriorityStat    Priority = "stat"
	PriorityRoutine Priority = "routine"
)

type Analysis struct {
	ID          AnalysisID
	PatientID   PatientID
	PatientName string
	Gender      Gender
	Age         int
	Priority    Priority
	Requested   []Parameter
	Results     map[Parameter]float64
	ReceivedAt  time.Time
}
