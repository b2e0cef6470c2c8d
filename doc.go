/*
Package payermint defines all common interfaces that weave together the
subpackages of the payermint custody engine, as well as implementations of
some of the simpler components (when interfaces would be too much overhead).

We pass context through context.Context between the dispatcher, middleware
and handlers. To do so, payermint defines some common keys to store info,
such as block height and chain id. Each extension, such as auth, may add its
own keys to enrich the context with specific data.

There should exist two functions for every XYZ of type T that we want to
support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)
*/
package payermint
