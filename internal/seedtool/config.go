package seedtool

import "time"

// Config holds configuration for the season seeding run.
type Config struct {
	BaseURL   string        // Base URL of the service
	LeagueID  int           // League to seed
	NumTeams  int           // Number of synthetic teams
	Seasons   int           // Number of double round-robin seasons
	BatchSize int           // Records per POST /matches batch
	Timeout   time.Duration // HTTP request timeout
	LogFile   string        // Log file for seeding output
	Verbose   bool          // Enable verbose logging
}

// fixture is one synthetic match record in the POST /matches wire shape.
type fixture struct {
	LeagueID  int    `json:"league_id"`
	Season    string `json:"season"`
	Round     string `json:"round"`
	MatchDate string `json:"match_date"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	Completed bool   `json:"completed"`
}

// ingestAck mirrors the POST /matches acknowledgement.
type ingestAck struct {
	Accepted   int `json:"accepted"`
	Duplicates int `json:"duplicates"`
	Retrain    int `json:"retrain_triggered"`
}

// prediction mirrors the POST /predict response.
type prediction struct {
	Winner             string  `json:"winner"`
	HomeWinProb        float64 `json:"home_win_prob"`
	PredictedHomeScore float64 `json:"predicted_home_score"`
	PredictedAwayScore float64 `json:"predicted_away_score"`
	ConfidenceLabel    string  `json:"confidence_label"`
	IntensityLabel     string  `json:"intensity_label"`
	PredictionMethod   string  `json:"prediction_method"`
}

// Stats holds seeding run statistics.
type Stats struct {
	FixturesGenerated    int
	FixturesAccepted     int
	FixturesDuplicate    int
	RetrainsTriggered    int
	PredictionsRequested int
	PredictionsUpheld    int
	StartTime            time.Time
	EndTime              time.Time
	Duration             time.Duration
}
