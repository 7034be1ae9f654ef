package common

import "fmt"

func RedisKeyUserStats(userID string) string {
	return fmt.Sprintf("stats:user:%s", userID)
}

func RedisKeyLeaderboard() string {
	return "leaderboard:reviews"
}
