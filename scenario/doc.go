/*
Package scenario captures what one vertex observed and produced during a
computation step, and loads and saves collections of those captures.

A Record holds a vertex id and value, the messages the vertex received, and for
every neighbor the optional edge value and the messages sent to it.  A File
holds records that all share the six type descriptors of its Header.  A
SaverLoader resolves the descriptors through a datatype.Registry, then moves
files between memory and a storage.Store.

	sl := scenario.New[string, int64, int64, string, string](datatype.Default, store, scenario.Config{})
	f, err := sl.Load(ctx, "superstep-3.pb")

Tools that only learn the value types from the file header use any for every
type parameter.
*/
package scenario
