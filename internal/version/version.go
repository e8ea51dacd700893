package version

// Version is the psyfield release string. Overridable at link time with
// -ldflags "-X psyfield/internal/version.Version=...".
var Version = "0.3.0"
