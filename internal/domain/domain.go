package domain

import (
	"github.com/ncwatch/ncwatch-backend/internal/domain/ingest"
)

const (
	SourceWarn       = ingest.SourceWarn
	SourceWeather    = ingest.SourceWeather
	SourceOutages    = ingest.SourceOutages
	SourceRecalls    = ingest.SourceRecalls
	SourceScams      = ingest.SourceScams
	SourceRemoteJobs = ingest.SourceRemoteJobs
	SourceAmber      = ingest.SourceAmber

	RunStatusRunning   = ingest.RunStatusRunning
	RunStatusCompleted = ingest.RunStatusCompleted
	RunStatusPartial   = ingest.RunStatusPartial
	RunStatusFailed    = ingest.RunStatusFailed

	JobStatusQueued    = ingest.JobStatusQueued
	JobStatusRunning   = ingest.JobStatusRunning
	JobStatusCompleted = ingest.JobStatusCompleted
	JobStatusFailed    = ingest.JobStatusFailed

	JobKindScheduled = ingest.JobKindScheduled
	JobKindManual    = ingest.JobKindManual
)

type State = ingest.State
type County = ingest.County
type Company = ingest.Company
type WarnNotice = ingest.WarnNotice
type WeatherAlert = ingest.WeatherAlert
type Outage = ingest.Outage
type Recall = ingest.Recall
type ScamAlert = ingest.ScamAlert
type AmberAlert = ingest.AmberAlert
type RemoteJob = ingest.RemoteJob
type ImportRun = ingest.ImportRun
type IngestJob = ingest.IngestJob

var Sources = ingest.Sources

func ValidSource(s string) bool { return ingest.ValidSource(s) }
