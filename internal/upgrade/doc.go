// Package upgrade migrates the synced settings when the extension is installed or updated.
//
// A lifecycle event flows through four parts:
//
//   - [Detector] classifies the event ([FreshInstall], [KnownInstall],
//     [SameOrPatchUpdate] or [MinorOrMajorUpgrade]).
//   - [Engine] applies the install or upgrade [Rule] set to an in-memory
//     [models.SettingsDocument], reporting each failed rule in a [Report]
//     instead of stopping.
//   - [Coordinator] writes the behaviour, appearance and newtab sections
//     concurrently and waits on a [Join] for all of them; failed sections are
//     named in the [WriteResult].
//   - [Helper] ties them together for OnInstalled, OnUpdated and
//     OnUpdateAvailable and always asks the [Host] to reinitialize afterwards.
//
// Collaborators ([Host], [Tracker], [LinkOpener], [EventRecorder]) are injected
// through [Options]; nothing here holds process-wide state.
package upgrade
