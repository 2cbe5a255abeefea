package roadmap

// DefaultFinalSequence is the sequence number that marks a stage as complete.
const DefaultFinalSequence = 9

// Dependencies returns the prerequisites of id under the roadmap numbering
// convention:
//   - the first task of stage 1 is a root and has none;
//   - the first task of any later stage depends on "<stage-1>.<finalSequence>";
//   - every other task depends on the previous sequence number of its own
//     stage, without a letter suffix ("4.2a" depends on "4.1").
//
// This is a fixed convention, not a graph search. Cross-stage and
// multi-parent dependencies cannot be expressed, and a roadmap whose real
// dependencies are not linear is outside what this function models.
// The result never contains id and only names strictly earlier identifiers,
// so the implied graph is acyclic.
func Dependencies(id TaskID, finalSequence int) []TaskID {
	if id.Sequence <= 1 {
		if id.Stage > 1 {
			return []TaskID{{Stage: id.Stage - 1, Sequence: finalSequence}}
		}
		return []TaskID{}
	}
	return []TaskID{{Stage: id.Stage, Sequence: id.Sequence - 1}}
}
