package main

// intsToSamples narrows decoded PCM values to the engine sample format,
// clamping anything a lax encoder let through out of range.
func intsToSamples(data []int) []int16 {
	out := make([]int16, len(data))
	for i, v := range data {
		switch {
		case v > 32767:
			out[i] = 32767
		case v < -32768:
			out[i] = -32768
		default:
			out[i] = int16(v)
		}
	}
	return out
}

// samplesToInts widens engine samples back to the go-audio buffer format.
func samplesToInts(samples []int16) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		out[i] = int(s)
	}
	return out
}
