/*
Package ports defines the driven ports (interfaces) for anilink.

These interfaces decouple the registry logic from storage and coordination
backends, so the same registry can run fully in memory or share subjects with
other replicas through Redis.

# Key Interfaces

  - Registry: the four subject operations (connect, disconnect, get state, set state).
  - SubjectStore: persists and loads subject records.
  - DistributedLocker: provides distributed locking for cross-replica serialization.

Contract suites (RunRegistryContract, RunSubjectStoreContract) let every adapter
prove it honours the same behaviour.
*/
package ports
