package service

import "github.com/prometheus/client_golang/prometheus"

var (
	MatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liarsdice_matches_total",
			Help: "Finished matches by difficulty and result",
		},
		[]string{"difficulty", "result"},
	)
	RoundsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liarsdice_rounds_total",
			Help: "Rounds played",
		},
		[]string{"difficulty"},
	)
	CallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liarsdice_calls_total",
			Help: "Bluff calls resolved",
		},
		[]string{"difficulty"},
	)
	PayoutGoldTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liarsdice_payout_gold_total",
			Help: "Gold paid out to players",
		},
		[]string{"difficulty"},
	)
)

func init() {
	prometheus.MustRegister(MatchesTotal)
	prometheus.MustRegister(RoundsTotal)
	prometheus.MustRegister(CallsTotal)
	prometheus.MustRegister(PayoutGoldTotal)
}
