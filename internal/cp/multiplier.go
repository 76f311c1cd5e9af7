package cp

// cpMultipliers holds the stat multiplier for levels 1 through 51 in half-level steps.
var cpMultipliers = []float64{
	0.094, 0.1351374318, 0.16639787, 0.192650919, 0.21573247, 0.2365726613,
	0.25572005, 0.2735303812, 0.29024988, 0.3060573775, 0.3210876, 0.3354450362,
	0.34921268, 0.3624577511, 0.3752356, 0.387592416, 0.39956728, 0.4111935514,
	0.42250001, 0.4329264091, 0.44310755, 0.4530599591, 0.46279839, 0.472336093,
	0.48168495, 0.4908558003, 0.49985844, 0.508701765, 0.51739395, 0.5259425113,
	0.53435433, 0.5426357375, 0.55079269, 0.5588305862, 0.56675452, 0.5745691333,
	0.58227891, 0.5898879072, 0.59740001, 0.6048236651, 0.61215729, 0.6194041216,
	0.62656713, 0.6336491432, 0.64065295, 0.6475809666, 0.65443563, 0.6612192524,
	0.667934, 0.6745818959, 0.68116492, 0.6876849038, 0.69414365, 0.7005366261,
	0.70688421, 0.7131541865, 0.7193597, 0.7255042076, 0.73160261, 0.734741036,
	0.73776948, 0.740785574, 0.74378943, 0.746781211, 0.74976104, 0.752729087,
	0.75568551, 0.758630368, 0.76156384, 0.764486065, 0.76739717, 0.770297266,
	0.7731865, 0.776064962, 0.77893275, 0.781790055, 0.78463697, 0.787473578,
	0.79030001, 0.792803968, 0.79530001, 0.797800015, 0.8003, 0.802799988,
	0.8053, 0.807800016, 0.81029999, 0.812799985, 0.81529999, 0.817800017,
	0.82029999, 0.822799986, 0.82529999, 0.827800021, 0.83029999, 0.832800018,
	0.83529999, 0.837800008, 0.84029999, 0.842800015, 0.84529999,
}

// Multiplier returns the stat multiplier for a level in [MinLevel, MaxLevel] on
// a half-level step.
func Multiplier(level float64) (float64, bool) {
	idx, ok := levelIndex(level)
	if !ok {
		return 0, false
	}
	return cpMultipliers[idx], true
}

func levelIndex(level float64) (int, bool) {
	steps := (level - MinLevel) * 2
	idx := int(steps)
	if float64(idx) != steps || idx < 0 || idx >= len(cpMultipliers) {
		return 0, false
	}
	return idx, true
}

func levelForIndex(idx int) float64 {
	return MinLevel + float64(idx)/2
}
