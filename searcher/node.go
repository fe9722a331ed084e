package searcher

// ValueEstimator scores actions from statistics gathered during rollouts.
type ValueEstimator[S Key[S], A Action] interface {
	// SelectWorldAction returns the action to execute in the real world, without exploration.
	SelectWorldAction(state S) A
	// SelectPlanningAction returns the action to follow during a rollout, with exploration.
	SelectPlanningAction(state S) A
	Visit(state S, action A, reward float64)
	StartRollout()
	FinishRollout(state S, terminal bool)
	// Restart drops every statistic gathered so far.
	Restart()
	CalcActionValue(state S, action A, useBound bool) float64
	Describe(indent int) string
}
