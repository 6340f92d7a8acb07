package service

// Point awards applied atomically with the row that triggers them.
const (
	PointsJoinCommunity  int64 = 10
	PointsEnrollCourse   int64 = 5
	PointsCompleteLesson int64 = 2
)
