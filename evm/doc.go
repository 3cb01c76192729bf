/*
Package evm implements a gasless EVM-style bytecode interpreter.

The interpreter loops over a byte array and executes each opcode against a
per-frame stack, memory and storage, plus a global account state shared by
every frame of one invocation. CALL, DELEGATECALL, STATICCALL and CREATE
recurse into fresh frames. A frame that fails is rolled back; failures are
reported on the Result and never abort the caller.
*/
package evm
