/*
Package registry implements the subject registry.

Registry is the single concrete implementation of ports.Registry. It owns the
mapping from subject ID to record through a ports.SubjectStore and consults
the domain validator before committing any state change. Every operation on a
subject runs under that subject's lock, so a SetState can never lose an update
between validation and commit. A ports.DistributedLocker extends the same
guarantee to several replicas sharing one store.
*/
package registry
