package gitver

// EffectiveConfiguration is the terminal, fully-resolved configuration for
// one branch: every field that is optional upstream is present here. It is
// only ever constructed by Merge, which refuses to build one with a
// required field unset.
type EffectiveConfiguration struct {
	VersioningMode VersioningMode
	Increment      IncrementStrategy

	Tag              string
	TagPrefix        string
	TagNumberPattern string

	PreventIncrementOfMergedBranchVersion bool
	TrackMergeTarget                      bool
	TracksReleaseBranches                 bool
	IsReleaseBranch                       bool

	AssemblyVersioningScheme     AssemblyVersioningScheme
	AssemblyFileVersioningScheme AssemblyVersioningScheme

	CommitMessageIncrementing CommitMessageIncrementMode
	MajorVersionBumpMessage   string
	MinorVersionBumpMessage   string
	PatchVersionBumpMessage   string
	NoBumpMessage             string

	LegacySemVerPadding              int
	BuildMetaDataPadding             int
	CommitsSinceVersionSourcePadding int

	PreReleaseWeight int

	VersionFilters []VersionFilter
}

// Merge combines a completed branch override with the global configuration
// into an EffectiveConfiguration. Six fields must come from the override
// and seven from the global configuration; any of the thirteen left unset
// is a fatal ConfigurationError naming the field. Fields with both sources
// take the override value when present.
func Merge(global *Config, override *BranchConfig) (*EffectiveConfiguration, error) {
	required := []struct {
		name string
		set  func() bool
	}{
		{"versioning mode", func() bool { return override.VersioningMode != nil }},
		{"increment", func() bool { return override.Increment != nil }},
		{"prevent increment of merged branch version", func() bool { return override.PreventIncrementOfMergedBranchVersion != nil }},
		{"track merge target", func() bool { return override.TrackMergeTarget != nil }},
		{"tracks release branches", func() bool { return override.TracksReleaseBranches != nil }},
		{"is release branch", func() bool { return override.IsReleaseBranch != nil }},
		{"assembly versioning scheme", func() bool { return global.AssemblyVersioningScheme != nil }},
		{"assembly file versioning scheme", func() bool { return global.AssemblyFileVersioningScheme != nil }},
		{"commit message incrementing", func() bool { return global.CommitMessageIncrementing != nil }},
		{"legacy semver padding", func() bool { return global.LegacySemVerPadding != nil }},
		{"build metadata padding", func() bool { return global.BuildMetaDataPadding != nil }},
		{"commits since version source padding", func() bool { return global.CommitsSinceVersionSourcePadding != nil }},
		{"tag prefix", func() bool { return global.TagPrefix != nil }},
	}

	for _, field := range required {
		if !field.set() {
			return nil, &ConfigurationError{Field: field.name, Branch: override.Name}
		}
	}

	return &EffectiveConfiguration{
		VersioningMode: *override.VersioningMode,
		Increment:      *override.Increment,

		Tag:              stringOr(override.Tag, ""),
		TagPrefix:        *global.TagPrefix,
		TagNumberPattern: stringOr(override.TagNumberPattern, ""),

		PreventIncrementOfMergedBranchVersion: *override.PreventIncrementOfMergedBranchVersion,
		TrackMergeTarget:                      *override.TrackMergeTarget,
		TracksReleaseBranches:                 *override.TracksReleaseBranches,
		IsReleaseBranch:                       *override.IsReleaseBranch,

		AssemblyVersioningScheme:     *global.AssemblyVersioningScheme,
		AssemblyFileVersioningScheme: *global.AssemblyFileVersioningScheme,

		CommitMessageIncrementing: incrementModeOr(override.CommitMessageIncrementing, *global.CommitMessageIncrementing),
		MajorVersionBumpMessage:   stringOr(global.MajorVersionBumpMessage, ""),
		MinorVersionBumpMessage:   stringOr(global.MinorVersionBumpMessage, ""),
		PatchVersionBumpMessage:   stringOr(global.PatchVersionBumpMessage, ""),
		NoBumpMessage:             stringOr(global.NoBumpMessage, ""),

		LegacySemVerPadding:              *global.LegacySemVerPadding,
		BuildMetaDataPadding:             *global.BuildMetaDataPadding,
		CommitsSinceVersionSourcePadding: *global.CommitsSinceVersionSourcePadding,

		// Pre-release weight is the one field with a hardcoded default
		// rather than an error on absence.
		PreReleaseWeight: intOr(override.PreReleaseWeight, 0),

		VersionFilters: NewVersionFilters(global.Ignore),
	}, nil
}

func stringOr(v *string, fallback string) string {
	if v != nil {
		return *v
	}
	return fallback
}

func intOr(v *int, fallback int) int {
	if v != nil {
		return *v
	}
	return fallback
}

func incrementModeOr(v *CommitMessageIncrementMode, fallback CommitMessageIncrementMode) CommitMessageIncrementMode {
	if v != nil {
		return *v
	}
	return fallback
}
