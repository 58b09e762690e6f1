/*
	Package graft holds the utilities shared by every graft package: the levelled
	package logger, the serialization envelope used around stored scenario files,
	and small path helpers.
*/
package graft
