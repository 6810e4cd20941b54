package constvars

const (
	CacheKeyUserLatestFormat = "user:%s:latest"
	CacheKeyUserStatsFormat  = "user:%s:stats"
)

const (
	CacheUserLatestTTLInSeconds = 3600
	CacheUserStatsTTLInSeconds  = 86400
)
